package matrix

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autograd"
)

// MatMul returns the matrix product m @ other with shape (m.rows, other.cols).
// A vector operand is read as a single row.
func (m *Matrix) MatMul(other *Matrix) (*Matrix, error) {
	rows, inner := m.dims()
	otherRows, cols := other.dims()
	if inner != otherRows {
		return nil, fail("MatMul", fmt.Errorf("MatMul: (%d, %d) @ (%d, %d): %w",
			rows, inner, otherRows, cols, autograd.ErrShapeMismatch))
	}

	data := make([]autograd.Tensor, rows*cols)
	for i := 0; i < rows; i++ {
		row := m.data[i*inner : (i+1)*inner]
		for j := 0; j < cols; j++ {
			acc := row[0].Mul(other.data[j])
			for k := 1; k < inner; k++ {
				acc = acc.Add(row[k].Mul(other.data[k*cols+j]))
			}
			data[i*cols+j] = acc
		}
	}
	out := newMatrix(m.g, rows, cols, data)
	done("MatMul", out)
	return out, nil
}
