package nn

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autograd"
	"github.com/born-ml/autograd/internal/matrix"
)

// Parameter is a trainable rows×cols block of values.
type Parameter struct {
	name  string
	rows  int
	cols  int
	data  []float64
	grad  []float64
	bound *matrix.Matrix
}

// NewParameter wraps data (row-major, rows×cols). The slice is owned by the
// parameter afterwards.
func NewParameter(name string, rows, cols int, data []float64) *Parameter {
	if len(data) != rows*cols {
		panic(fmt.Sprintf("parameter %s: %d values for shape (%d, %d)", name, len(data), rows, cols))
	}
	return &Parameter{
		name: name,
		rows: rows,
		cols: cols,
		data: data,
		grad: make([]float64, len(data)),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Shape returns (rows, cols).
func (p *Parameter) Shape() (rows, cols int) {
	return p.rows, p.cols
}

// Data returns the current values. Optimizers update it in place.
func (p *Parameter) Data() []float64 {
	return p.data
}

// Grad returns the gradient collected by the last CollectGrad.
func (p *Parameter) Grad() []float64 {
	return p.grad
}

// Bind creates leaves for the current values on g. The returned matrix is
// what layers read during the forward pass.
func (p *Parameter) Bind(g *autograd.Graph) (*matrix.Matrix, error) {
	m, err := matrix.FromValues(g, p.rows, p.cols, p.data)
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", p.name, err)
	}
	p.bound = m
	return m, nil
}

// Matrix returns the matrix from the last Bind.
func (p *Parameter) Matrix() *matrix.Matrix {
	if p.bound == nil {
		panic(fmt.Sprintf("parameter %s: not bound to a graph", p.name))
	}
	return p.bound
}

// CollectGrad copies the gradients of the bound leaves.
func (p *Parameter) CollectGrad() {
	copy(p.grad, p.Matrix().Grads())
}

// Share returns a parameter over the same values with its own binding and
// gradient buffer. Replicas may bind to different graphs concurrently as long
// as nothing updates the values meanwhile.
func (p *Parameter) Share() *Parameter {
	return &Parameter{
		name: p.name,
		rows: p.rows,
		cols: p.cols,
		data: p.data,
		grad: make([]float64, len(p.grad)),
	}
}

// ZeroGrad clears the collected gradient.
func (p *Parameter) ZeroGrad() {
	for i := range p.grad {
		p.grad[i] = 0
	}
}
