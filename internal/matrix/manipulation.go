package matrix

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autograd"
)

// Transpose returns a new (cols, rows) matrix. The buffer is new; the cells
// still refer to the same nodes as m.
func (m *Matrix) Transpose() *Matrix {
	rows, cols := m.dims()
	data := make([]autograd.Tensor, rows*cols)
	idx := 0
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			data[idx] = m.data[i*cols+j]
			idx++
		}
	}
	out := newMatrix(m.g, cols, rows, data)
	done("Transpose", out)
	return out
}

// View reinterprets m as rows×cols over the same buffer. One dimension may be
// -1 to infer it from Len.
func (m *Matrix) View(rows, cols int) (*Matrix, error) {
	rows, cols, err := inferShape("View", m.size, rows, cols)
	if err != nil {
		return nil, err
	}
	out := newMatrix(m.g, rows, cols, m.data)
	done("View", out)
	return out, nil
}

// View3 copies m's handles into a batch×context×embed array.
func (m *Matrix) View3(batch, context, embed int) (*ThreeDArray, error) {
	if batch <= 0 || context <= 0 || embed <= 0 || batch*context*embed != m.size {
		return nil, fail("View3", fmt.Errorf("View3: (%d, %d, %d) for %d elements: %w",
			batch, context, embed, m.size, autograd.ErrShapeMismatch))
	}
	data := make([]autograd.Tensor, m.size)
	copy(data, m.data)
	return &ThreeDArray{g: m.g, batch: batch, context: context, embed: embed, data: data}, nil
}

// Clone returns a matrix of fresh leaves holding m's current values. The clone
// is detached from m's graph history.
func (m *Matrix) Clone() *Matrix {
	return m.like(m.g.Scalars(m.Values()))
}

// PickColumns selects element (i, cols[i]) from every row i and returns them
// as a vector. The result aliases m's nodes.
func (m *Matrix) PickColumns(cols []int) (*Matrix, error) {
	rows, width := m.dims()
	if len(cols) != rows {
		return nil, fail("PickColumns", fmt.Errorf("PickColumns: %d column ids for %d rows: %w",
			len(cols), rows, autograd.ErrShapeMismatch))
	}
	data := make([]autograd.Tensor, rows)
	for i, j := range cols {
		if j < 0 || j >= width {
			return nil, fail("PickColumns", fmt.Errorf("PickColumns: column %d of %d in row %d: %w",
				j, width, i, autograd.ErrIndexOutOfRange))
		}
		data[i] = m.data[i*width+j]
	}
	return newVector(data), nil
}

// Gather looks up whole rows of m by id, e.g. an embedding table lookup.
// indices[b][c] selects the row stored at (b, c) of the result, which has
// shape (len(indices), len(indices[0]), cols). Rows are shared, not copied.
func (m *Matrix) Gather(indices [][]int) (*ThreeDArray, error) {
	if len(indices) == 0 || len(indices[0]) == 0 {
		return nil, fail("Gather", fmt.Errorf("Gather: empty index set: %w", autograd.ErrShapeMismatch))
	}
	rows, cols := m.dims()
	context := len(indices[0])
	data := make([]autograd.Tensor, 0, len(indices)*context*cols)
	for b, line := range indices {
		if len(line) != context {
			return nil, fail("Gather", fmt.Errorf("Gather: row %d has %d ids, want %d: %w",
				b, len(line), context, autograd.ErrShapeMismatch))
		}
		for _, id := range line {
			if id < 0 || id >= rows {
				return nil, fail("Gather", fmt.Errorf("Gather: id %d of %d rows: %w",
					id, rows, autograd.ErrIndexOutOfRange))
			}
			data = append(data, m.data[id*cols:(id+1)*cols]...)
		}
	}
	return &ThreeDArray{g: m.g, batch: len(indices), context: context, embed: cols, data: data}, nil
}

// inferShape resolves a single -1 dimension and checks the element count.
func inferShape(op string, total, rows, cols int) (int, int, error) {
	switch {
	case rows == -1 && cols > 0 && total%cols == 0:
		rows = total / cols
	case cols == -1 && rows > 0 && total%rows == 0:
		cols = total / rows
	}
	if rows <= 0 || cols <= 0 || rows*cols != total {
		return 0, 0, fail(op, fmt.Errorf("%s: shape (%d, %d) for %d elements: %w",
			op, rows, cols, total, autograd.ErrShapeMismatch))
	}
	return rows, cols, nil
}
