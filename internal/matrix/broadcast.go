package matrix

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autograd"
)

// BroadcastView is a read-only strided view of a Matrix replicated to a larger
// shape. Replicated axes have stride 0, so every target cell refers to the
// source handle itself and Backward sums all replicated contributions into
// the single source node.
type BroadcastView struct {
	src       *Matrix
	rows      int
	cols      int
	rowStride int
	colStride int
}

// BroadcastTo views m as a rows×cols matrix.
//
// Each source dimension must equal the target or be 1. A vector-mode matrix is
// read as a 1×Len row; m itself is not modified.
func (m *Matrix) BroadcastTo(rows, cols int) (*BroadcastView, error) {
	if err := checkDims("BroadcastTo", rows, cols); err != nil {
		return nil, err
	}
	srcRows, srcCols := m.dims()
	if (srcRows != rows && srcRows != 1) || (srcCols != cols && srcCols != 1) {
		return nil, fail("BroadcastTo", fmt.Errorf("BroadcastTo: (%d, %d) to (%d, %d): %w",
			srcRows, srcCols, rows, cols, autograd.ErrShapeMismatch))
	}

	v := &BroadcastView{src: m, rows: rows, cols: cols}
	if srcRows != 1 {
		v.rowStride = srcCols
	}
	if srcCols != 1 {
		v.colStride = 1
	}
	return v, nil
}

// Shape returns the broadcast shape.
func (v *BroadcastView) Shape() (rows, cols int) {
	return v.rows, v.cols
}

// At returns the source handle seen at (i, j).
func (v *BroadcastView) At(i, j int) (autograd.Tensor, error) {
	if i < 0 || i >= v.rows || j < 0 || j >= v.cols {
		return autograd.Tensor{}, fail("BroadcastView.At", fmt.Errorf("BroadcastView.At: (%d, %d) for shape (%d, %d): %w",
			i, j, v.rows, v.cols, autograd.ErrIndexOutOfRange))
	}
	return v.at(i, j), nil
}

func (v *BroadcastView) at(i, j int) autograd.Tensor {
	return v.src.data[i*v.rowStride+j*v.colStride]
}

// Materialize copies the view's handles into a new dense buffer. Cells still
// alias the source nodes.
func (v *BroadcastView) Materialize() *Matrix {
	data := make([]autograd.Tensor, v.rows*v.cols)
	for i := 0; i < v.rows; i++ {
		for j := 0; j < v.cols; j++ {
			data[i*v.cols+j] = v.at(i, j)
		}
	}
	out := newMatrix(v.src.g, v.rows, v.cols, data)
	done("BroadcastTo", out)
	return out
}

// broadcastShape returns the per-dimension maximum of the two layouts.
func broadcastShape(a, b *Matrix) (rows, cols int) {
	ar, ac := a.dims()
	br, bc := b.dims()
	return max(ar, br), max(ac, bc)
}
