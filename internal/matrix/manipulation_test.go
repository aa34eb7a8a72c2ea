package matrix_test

import (
	"testing"

	"github.com/born-ml/autograd/internal/autograd"
	"github.com/born-ml/autograd/internal/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestTranspose(t *testing.T) {
	g := autograd.NewGraph()
	m := seq(t, g, 2, 3)

	tr := m.Transpose()
	rows, cols := tr.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, tr.Values())
	assert.False(t, tr.SharesBuffer(m))
	assert.True(t, mat.Equal(m.Dense().T(), tr.Dense()))

	// Cells still refer to the original nodes.
	cell, err := tr.At(2, 1)
	require.NoError(t, err)
	cell.Backward()
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 1}, m.Grads())
}

func TestTranspose_Involution(t *testing.T) {
	g := autograd.NewGraph()
	m := seq(t, g, 3, 4)

	back := m.Transpose().Transpose()
	r1, c1 := m.Shape()
	r2, c2 := back.Shape()
	assert.Equal(t, r1, r2)
	assert.Equal(t, c1, c2)
	assert.Equal(t, m.Values(), back.Values())
	assert.False(t, back.SharesBuffer(m))
}

func TestView(t *testing.T) {
	g := autograd.NewGraph()
	m := seq(t, g, 2, 3)

	v, err := m.View(3, 2)
	require.NoError(t, err)
	assert.True(t, v.SharesBuffer(m))
	assert.Equal(t, m.Values(), v.Values())

	inferred, err := m.View(-1, 1)
	require.NoError(t, err)
	rows, cols := inferred.Shape()
	assert.Equal(t, 6, rows)
	assert.Equal(t, 1, cols)

	_, err = m.View(4, 2)
	assert.ErrorIs(t, err, autograd.ErrShapeMismatch)

	_, err = m.View(-1, 4)
	assert.ErrorIs(t, err, autograd.ErrShapeMismatch)

	_, err = m.View(-1, -1)
	assert.ErrorIs(t, err, autograd.ErrShapeMismatch)
}

func TestView3(t *testing.T) {
	g := autograd.NewGraph()
	m := seq(t, g, 2, 6)

	arr, err := m.View3(2, 3, 2)
	require.NoError(t, err)
	b, c, e := arr.Shape()
	assert.Equal(t, []int{2, 3, 2}, []int{b, c, e})
	assert.Equal(t, m.Values(), arr.Values())

	slice, err := arr.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 11.0, slice[0].Value())
	assert.Equal(t, 12.0, slice[1].Value())

	_, err = m.View3(2, 2, 2)
	assert.ErrorIs(t, err, autograd.ErrShapeMismatch)
}

func TestPickColumns(t *testing.T) {
	g := autograd.NewGraph()
	m := seq(t, g, 3, 2)

	picked, err := m.PickColumns([]int{1, 0, 1})
	require.NoError(t, err)
	assert.True(t, picked.IsVector())
	assert.Equal(t, []float64{2, 3, 6}, picked.Values())

	picked.SumAll().Backward()
	assert.Equal(t, []float64{0, 1, 1, 0, 0, 1}, m.Grads())

	_, err = m.PickColumns([]int{0, 0})
	assert.ErrorIs(t, err, autograd.ErrShapeMismatch)
	_, err = m.PickColumns([]int{0, 2, 0})
	assert.ErrorIs(t, err, autograd.ErrIndexOutOfRange)
}

func TestGather_EmbeddingLookup(t *testing.T) {
	g := autograd.NewGraph()
	table := seq(t, g, 4, 2) // rows: [1 2] [3 4] [5 6] [7 8]

	arr, err := table.Gather([][]int{
		{0, 3, 3},
		{2, 1, 0},
	})
	require.NoError(t, err)
	b, c, e := arr.Shape()
	assert.Equal(t, 2, b)
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, e)
	assert.Equal(t, 12, arr.Len())
	assert.Equal(t, []float64{1, 2, 7, 8, 7, 8, 5, 6, 3, 4, 1, 2}, arr.Values())

	x, err := arr.Get(1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 6.0, x.Value())

	flat, err := arr.View(2, -1)
	require.NoError(t, err)
	rows, cols := flat.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 6, cols)

	// Gradient reaches the table through the gathered references, summing
	// over repeated ids.
	flat.SumAll().Backward()
	assert.Equal(t, []float64{2, 2, 1, 1, 1, 1, 2, 2}, table.Grads())
}

func TestGather_Errors(t *testing.T) {
	g := autograd.NewGraph()
	table := seq(t, g, 4, 2)

	_, err := table.Gather(nil)
	assert.ErrorIs(t, err, autograd.ErrShapeMismatch)

	_, err = table.Gather([][]int{{0, 1}, {2}})
	assert.ErrorIs(t, err, autograd.ErrShapeMismatch)

	_, err = table.Gather([][]int{{0, 4}})
	assert.ErrorIs(t, err, autograd.ErrIndexOutOfRange)

	arr, err := table.Gather([][]int{{0}})
	require.NoError(t, err)
	_, err = arr.At(1, 0)
	assert.ErrorIs(t, err, autograd.ErrIndexOutOfRange)
	_, err = arr.Get(0, 0, 2)
	assert.ErrorIs(t, err, autograd.ErrIndexOutOfRange)
	_, err = arr.View(3, -1)
	assert.ErrorIs(t, err, autograd.ErrShapeMismatch)
}

func TestMat_ValuesView(t *testing.T) {
	g := autograd.NewGraph()
	m := seq(t, g, 2, 3)

	view := m.Mat()
	r, c := view.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 6.0, view.At(1, 2))
	assert.Equal(t, 4.0, view.T().At(0, 1))
	assert.Panics(t, func() { view.At(2, 0) })

	back, err := matrix.FromMat(g, view.T())
	require.NoError(t, err)
	assert.Equal(t, m.Transpose().Values(), back.Values())
}
