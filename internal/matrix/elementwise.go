package matrix

import "github.com/born-ml/autograd/internal/autograd"

type binaryFunc func(a, b autograd.Tensor) (autograd.Tensor, error)

type unaryFunc func(x autograd.Tensor) (autograd.Tensor, error)

// zip broadcasts both operands to the common shape and applies f per cell.
// Each output cell is a new node.
func (m *Matrix) zip(op string, other *Matrix, f binaryFunc) (*Matrix, error) {
	rows, cols := broadcastShape(m, other)
	a, err := m.BroadcastTo(rows, cols)
	if err != nil {
		return nil, err
	}
	b, err := other.BroadcastTo(rows, cols)
	if err != nil {
		return nil, err
	}

	data := make([]autograd.Tensor, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			t, err := f(a.at(i, j), b.at(i, j))
			if err != nil {
				return nil, fail(op, err)
			}
			data[i*cols+j] = t
		}
	}
	out := newMatrix(m.g, rows, cols, data)
	done(op, out)
	return out, nil
}

// apply maps f over every element, keeping m's layout.
func (m *Matrix) apply(op string, f unaryFunc) (*Matrix, error) {
	data := make([]autograd.Tensor, m.size)
	for i, x := range m.data {
		t, err := f(x)
		if err != nil {
			return nil, fail(op, err)
		}
		data[i] = t
	}
	out := m.like(data)
	done(op, out)
	return out, nil
}

// mapTotal maps an operation that cannot fail.
func (m *Matrix) mapTotal(op string, f func(autograd.Tensor) autograd.Tensor) *Matrix {
	out, _ := m.apply(op, func(x autograd.Tensor) (autograd.Tensor, error) {
		return f(x), nil
	})
	return out
}

// Add returns m + other with broadcasting.
func (m *Matrix) Add(other *Matrix) (*Matrix, error) {
	return m.zip("Add", other, func(a, b autograd.Tensor) (autograd.Tensor, error) {
		return a.Add(b), nil
	})
}

// Sub returns m - other with broadcasting.
func (m *Matrix) Sub(other *Matrix) (*Matrix, error) {
	return m.zip("Sub", other, func(a, b autograd.Tensor) (autograd.Tensor, error) {
		return a.Sub(b), nil
	})
}

// Mul returns the elementwise product with broadcasting.
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	return m.zip("Mul", other, func(a, b autograd.Tensor) (autograd.Tensor, error) {
		return a.Mul(b), nil
	})
}

// Div returns the elementwise quotient with broadcasting. A zero divisor fails
// with ErrDomain.
func (m *Matrix) Div(other *Matrix) (*Matrix, error) {
	return m.zip("Div", other, autograd.Tensor.Div)
}

// AddScalar adds c to every element.
func (m *Matrix) AddScalar(c float64) *Matrix {
	return m.mapTotal("AddScalar", func(x autograd.Tensor) autograd.Tensor { return x.AddScalar(c) })
}

// SubScalar subtracts c from every element.
func (m *Matrix) SubScalar(c float64) *Matrix {
	return m.mapTotal("SubScalar", func(x autograd.Tensor) autograd.Tensor { return x.SubScalar(c) })
}

// MulScalar multiplies every element by c.
func (m *Matrix) MulScalar(c float64) *Matrix {
	return m.mapTotal("MulScalar", func(x autograd.Tensor) autograd.Tensor { return x.MulScalar(c) })
}

// DivScalar divides every element by c.
func (m *Matrix) DivScalar(c float64) (*Matrix, error) {
	return m.apply("DivScalar", func(x autograd.Tensor) (autograd.Tensor, error) { return x.DivScalar(c) })
}

// Neg negates every element.
func (m *Matrix) Neg() *Matrix {
	return m.mapTotal("Neg", autograd.Tensor.Neg)
}

// Pow raises every element to n.
func (m *Matrix) Pow(n float64) (*Matrix, error) {
	return m.apply("Pow", func(x autograd.Tensor) (autograd.Tensor, error) { return x.Pow(n) })
}

// Exp applies e^x to every element.
func (m *Matrix) Exp() *Matrix {
	return m.mapTotal("Exp", autograd.Tensor.Exp)
}

// Log applies the natural logarithm to every element.
func (m *Matrix) Log() (*Matrix, error) {
	return m.apply("Log", autograd.Tensor.Log)
}

// Tanh applies tanh to every element.
func (m *Matrix) Tanh() *Matrix {
	return m.mapTotal("Tanh", autograd.Tensor.Tanh)
}

// Sigmoid applies the logistic function to every element.
func (m *Matrix) Sigmoid() *Matrix {
	return m.mapTotal("Sigmoid", autograd.Tensor.Sigmoid)
}

// ReLU applies max(0, x) to every element.
func (m *Matrix) ReLU() *Matrix {
	return m.mapTotal("ReLU", autograd.Tensor.ReLU)
}
