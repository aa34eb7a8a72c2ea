package matrix

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autograd"
)

// Sum reduces along dim (0 = over rows, 1 or -1 = over columns).
//
// With keepdim the reduced axis stays as size 1: (R, C) → (1, C) or (R, 1).
// Without it the result is a vector of length C or R.
func (m *Matrix) Sum(dim int, keepdim bool) (*Matrix, error) {
	return m.reduce("Sum", dim, keepdim, func(acc, x autograd.Tensor) autograd.Tensor {
		return acc.Add(x)
	})
}

// Max reduces along dim keeping the largest element of each line. The result
// aliases the winning element, so gradient flows only to it. Ties keep the
// earlier element.
func (m *Matrix) Max(dim int, keepdim bool) (*Matrix, error) {
	return m.reduce("Max", dim, keepdim, func(acc, x autograd.Tensor) autograd.Tensor {
		if x.Value() > acc.Value() {
			return x
		}
		return acc
	})
}

// Min reduces along dim keeping the smallest element of each line. Ties keep
// the earlier element.
func (m *Matrix) Min(dim int, keepdim bool) (*Matrix, error) {
	return m.reduce("Min", dim, keepdim, func(acc, x autograd.Tensor) autograd.Tensor {
		if x.Value() < acc.Value() {
			return x
		}
		return acc
	})
}

func (m *Matrix) reduce(op string, dim int, keepdim bool, combine func(acc, x autograd.Tensor) autograd.Tensor) (*Matrix, error) {
	rows, cols := m.dims()

	var lines, length, lineStride, elemStride int
	switch dim {
	case 0:
		lines, length, lineStride, elemStride = cols, rows, 1, cols
	case 1, -1:
		lines, length, lineStride, elemStride = rows, cols, cols, 1
	default:
		return nil, fail(op, fmt.Errorf("%s: dim %d (want 0, 1 or -1): %w", op, dim, autograd.ErrInvalidAxis))
	}

	data := make([]autograd.Tensor, lines)
	for l := 0; l < lines; l++ {
		base := l * lineStride
		acc := m.data[base]
		for k := 1; k < length; k++ {
			acc = combine(acc, m.data[base+k*elemStride])
		}
		data[l] = acc
	}

	var out *Matrix
	switch {
	case !keepdim:
		out = newVector(data)
	case dim == 0:
		out = newMatrix(m.g, 1, lines, data)
	default:
		out = newMatrix(m.g, lines, 1, data)
	}
	done(op, out)
	return out, nil
}

// SumAll adds every element into a single scalar.
func (m *Matrix) SumAll() autograd.Tensor {
	acc := m.data[0]
	for _, x := range m.data[1:] {
		acc = acc.Add(x)
	}
	return acc
}

// Mean returns the average of every element.
func (m *Matrix) Mean() autograd.Tensor {
	return m.SumAll().MulScalar(1 / float64(m.size))
}
