package matrix_test

import (
	"testing"

	"github.com/born-ml/autograd/internal/autograd"
	"github.com/born-ml/autograd/internal/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMatMul_MatchesGonum(t *testing.T) {
	g := autograd.NewGraph()
	a := seq(t, g, 2, 3)
	b := seq(t, g, 3, 2)

	out, err := a.MatMul(b)
	require.NoError(t, err)
	rows, cols := out.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)

	var want mat.Dense
	want.Mul(a.Dense(), b.Dense())
	assert.True(t, mat.EqualApprox(&want, out.Dense(), 1e-12))
	assert.Equal(t, []float64{22, 28, 49, 64}, out.Values())
}

func TestMatMul_Gradients(t *testing.T) {
	g := autograd.NewGraph()
	a := seq(t, g, 2, 3)
	b := seq(t, g, 3, 2)

	out, err := a.MatMul(b)
	require.NoError(t, err)
	out.SumAll().Backward()

	// dL/dA = ones(2,2) @ B^T, dL/dB = A^T @ ones(2,2)
	ones := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
	var wantA, wantB mat.Dense
	wantA.Mul(ones, b.Dense().T())
	wantB.Mul(a.Dense().T(), ones)

	assert.True(t, mat.EqualApprox(&wantA, a.GradDense(), 1e-12))
	assert.True(t, mat.EqualApprox(&wantB, b.GradDense(), 1e-12))
}

func TestMatMul_InnerMismatch(t *testing.T) {
	g := autograd.NewGraph()
	a := seq(t, g, 2, 3)
	b := seq(t, g, 2, 3)

	_, err := a.MatMul(b)
	assert.ErrorIs(t, err, autograd.ErrShapeMismatch)
}

func TestMatMul_VectorAsRow(t *testing.T) {
	g := autograd.NewGraph()
	v, err := matrix.NewVector(g.Scalars([]float64{1, 2, 3}))
	require.NoError(t, err)
	b := seq(t, g, 3, 1)

	out, err := v.MatMul(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{14}, out.Values())
}
