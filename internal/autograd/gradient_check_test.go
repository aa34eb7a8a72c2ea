package autograd_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/born-ml/autograd/internal/autograd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expr evaluates the same expression either on plain floats or on tensors.
type expr struct {
	name  string
	plain func(x, y float64) float64
	graph func(x, y autograd.Tensor) (autograd.Tensor, error)
}

var arithmeticExprs = []expr{
	{
		name:  "x*y+x",
		plain: func(x, y float64) float64 { return x*y + x },
		graph: func(x, y autograd.Tensor) (autograd.Tensor, error) { return x.Mul(y).Add(x), nil },
	},
	{
		name:  "(x-y)*(x+y)",
		plain: func(x, y float64) float64 { return (x - y) * (x + y) },
		graph: func(x, y autograd.Tensor) (autograd.Tensor, error) { return x.Sub(y).Mul(x.Add(y)), nil },
	},
	{
		name:  "x/y-3*x",
		plain: func(x, y float64) float64 { return x/y - 3*x },
		graph: func(x, y autograd.Tensor) (autograd.Tensor, error) {
			q, err := x.Div(y)
			if err != nil {
				return autograd.Tensor{}, err
			}
			return q.Sub(x.MulScalar(3)), nil
		},
	},
	{
		name:  "(x*x*y)/(y+2)",
		plain: func(x, y float64) float64 { return (x * x * y) / (y + 2) },
		graph: func(x, y autograd.Tensor) (autograd.Tensor, error) {
			return x.Mul(x).Mul(y).Div(y.AddScalar(2))
		},
	},
	{
		name:  "1/x+y/4",
		plain: func(x, y float64) float64 { return 1/x + y/4 },
		graph: func(x, y autograd.Tensor) (autograd.Tensor, error) {
			inv, err := x.RDivScalar(1)
			if err != nil {
				return autograd.Tensor{}, err
			}
			q, err := y.DivScalar(4)
			if err != nil {
				return autograd.Tensor{}, err
			}
			return inv.Add(q), nil
		},
	},
	{
		name:  "tanh(x*y)+exp(x)-2",
		plain: func(x, y float64) float64 { return math.Tanh(x*y) + math.Exp(x) - 2 },
		graph: func(x, y autograd.Tensor) (autograd.Tensor, error) {
			return x.Mul(y).Tanh().Add(x.Exp()).SubScalar(2), nil
		},
	},
}

// numericalGradient computes df/dx and df/dy using central differences.
func numericalGradient(f func(x, y float64) float64, x, y, eps float64) (float64, float64) {
	dx := (f(x+eps, y) - f(x-eps, y)) / (2 * eps)
	dy := (f(x, y+eps) - f(x, y-eps)) / (2 * eps)
	return dx, dy
}

func TestGradientCheck_Arithmetic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const eps = 1e-6

	for _, e := range arithmeticExprs {
		t.Run(e.name, func(t *testing.T) {
			for trial := 0; trial < 20; trial++ {
				// Keep operands away from zero so divisions stay well conditioned.
				x := 0.5 + rng.Float64()*2
				y := 0.5 + rng.Float64()*2

				g := autograd.NewGraph()
				tx, ty := g.Scalar(x), g.Scalar(y)
				out, err := e.graph(tx, ty)
				require.NoError(t, err)
				assert.InDelta(t, e.plain(x, y), out.Value(), 1e-9)

				out.Backward()
				wantX, wantY := numericalGradient(e.plain, x, y, eps)
				assert.InDelta(t, wantX, tx.Grad(), 1e-4, "d/dx at (%g, %g)", x, y)
				assert.InDelta(t, wantY, ty.Grad(), 1e-4, "d/dy at (%g, %g)", x, y)
			}
		})
	}
}
