// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/autograd/autograd"
	"github.com/born-ml/autograd/matrix"
)

func TestPublicAPI(t *testing.T) {
	g := autograd.NewGraph()
	x, err := matrix.FromValues(g, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	w, err := matrix.FromMat(g, mat.NewDense(3, 1, []float64{1, 1, 1}))
	require.NoError(t, err)

	y, err := x.MatMul(w)
	require.NoError(t, err)
	y.SumAll().Backward()

	assert.Equal(t, []float64{6, 15}, y.Values())
	assert.Equal(t, []float64{5, 7, 9}, w.Grads())

	_, err = x.MatMul(x)
	assert.ErrorIs(t, err, autograd.ErrShapeMismatch)
}
