package matrix

import (
	"github.com/born-ml/autograd/internal/autograd"
	"gonum.org/v1/gonum/mat"
)

// ValuesView exposes the forward values of a Matrix through gonum's
// mat.Matrix interface without copying. A vector reads as a single row.
type ValuesView struct {
	m *Matrix
}

var _ mat.Matrix = ValuesView{}

// Mat returns a gonum view of m's forward values.
func (m *Matrix) Mat() ValuesView {
	return ValuesView{m: m}
}

// Dims implements mat.Matrix.
func (v ValuesView) Dims() (r, c int) {
	return v.m.dims()
}

// At implements mat.Matrix.
func (v ValuesView) At(i, j int) float64 {
	rows, cols := v.m.dims()
	if i < 0 || i >= rows || j < 0 || j >= cols {
		panic(mat.ErrIndexOutOfRange)
	}
	return v.m.data[i*cols+j].Value()
}

// T implements mat.Matrix.
func (v ValuesView) T() mat.Matrix {
	return mat.Transpose{Matrix: v}
}

// Dense copies m's forward values into a gonum dense matrix.
func (m *Matrix) Dense() *mat.Dense {
	rows, cols := m.dims()
	return mat.NewDense(rows, cols, m.Values())
}

// GradDense copies m's gradients into a gonum dense matrix.
func (m *Matrix) GradDense() *mat.Dense {
	rows, cols := m.dims()
	return mat.NewDense(rows, cols, m.Grads())
}

// FromMat creates a matrix of leaves holding the values of src.
func FromMat(g *autograd.Graph, src mat.Matrix) (*Matrix, error) {
	rows, cols := src.Dims()
	values := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			values = append(values, src.At(i, j))
		}
	}
	return FromValues(g, rows, cols, values)
}
