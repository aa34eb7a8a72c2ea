package matrix

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autograd"
)

// ThreeDArray is a batch×context×embed block of handles, typically produced
// by Gather. (b, c) addresses an embed-length slice at offset
// b*context*embed + c*embed.
type ThreeDArray struct {
	g       *autograd.Graph
	batch   int
	context int
	embed   int
	data    []autograd.Tensor
}

// Shape returns (batch, context, embed).
func (a *ThreeDArray) Shape() (batch, context, embed int) {
	return a.batch, a.context, a.embed
}

// Len returns the number of elements.
func (a *ThreeDArray) Len() int {
	return len(a.data)
}

// At returns the embed-length slice at (b, c).
func (a *ThreeDArray) At(b, c int) ([]autograd.Tensor, error) {
	if b < 0 || b >= a.batch || c < 0 || c >= a.context {
		return nil, fail("ThreeDArray.At", fmt.Errorf("ThreeDArray.At: (%d, %d) for shape (%d, %d, %d): %w",
			b, c, a.batch, a.context, a.embed, autograd.ErrIndexOutOfRange))
	}
	base := b*a.context*a.embed + c*a.embed
	out := make([]autograd.Tensor, a.embed)
	copy(out, a.data[base:base+a.embed])
	return out, nil
}

// Get returns the single element at (b, c, e).
func (a *ThreeDArray) Get(b, c, e int) (autograd.Tensor, error) {
	if e < 0 || e >= a.embed {
		return autograd.Tensor{}, fail("ThreeDArray.Get", fmt.Errorf("ThreeDArray.Get: embed index %d of %d: %w",
			e, a.embed, autograd.ErrIndexOutOfRange))
	}
	row, err := a.At(b, c)
	if err != nil {
		return autograd.Tensor{}, err
	}
	return row[e], nil
}

// Values returns the forward values in storage order.
func (a *ThreeDArray) Values() []float64 {
	out := make([]float64, len(a.data))
	for i, t := range a.data {
		out[i] = t.Value()
	}
	return out
}

// View flattens the array into a rows×cols matrix backed by a new buffer.
// One dimension may be -1 to infer it.
func (a *ThreeDArray) View(rows, cols int) (*Matrix, error) {
	rows, cols, err := inferShape("ThreeDArray.View", len(a.data), rows, cols)
	if err != nil {
		return nil, err
	}
	data := make([]autograd.Tensor, len(a.data))
	copy(data, a.data)
	out := newMatrix(a.g, rows, cols, data)
	done("ThreeDArray.View", out)
	return out, nil
}
