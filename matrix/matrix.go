// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matrix provides two-dimensional containers of autograd tensors with
// broadcasting, reductions and matrix multiplication.
//
// Every element is a node of an autograd.Graph, so calling Backward on any
// scalar derived from a Matrix fills the gradients of its elements.
//
// Example:
//
//	g := autograd.NewGraph()
//	x, _ := matrix.FromValues(g, 2, 3, []float64{1, 2, 3, 4, 5, 6})
//	w, _ := matrix.FromValues(g, 3, 1, []float64{1, 1, 1})
//	y, _ := x.MatMul(w)
//	y.SumAll().Backward()
//	fmt.Println(w.Grads()) // [5 7 9]
package matrix

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/autograd/internal/autograd"
	"github.com/born-ml/autograd/internal/matrix"
)

// Matrix is a rows×cols (or vector) container of tensors.
type Matrix = matrix.Matrix

// BroadcastView is a strided reference view produced by broadcasting.
type BroadcastView = matrix.BroadcastView

// ThreeDArray is a batch×context×embed container, e.g. embedding lookups.
type ThreeDArray = matrix.ThreeDArray

// ValuesView exposes forward values as a gonum mat.Matrix.
type ValuesView = matrix.ValuesView

// VectorDim is what Shape reports for both dimensions of a vector.
const VectorDim = matrix.VectorDim

// Full creates a rows×cols matrix of distinct leaves holding fill.
func Full(g *autograd.Graph, rows, cols int, fill float64) (*Matrix, error) {
	return matrix.Full(g, rows, cols, fill)
}

// FromValues creates a rows×cols matrix of leaves from row-major values.
func FromValues(g *autograd.Graph, rows, cols int, values []float64) (*Matrix, error) {
	return matrix.FromValues(g, rows, cols, values)
}

// New wraps buffer as a rows×cols matrix without copying.
func New(rows, cols int, buffer []autograd.Tensor) (*Matrix, error) {
	return matrix.New(rows, cols, buffer)
}

// NewVector wraps buffer as a vector without copying.
func NewVector(buffer []autograd.Tensor) (*Matrix, error) {
	return matrix.NewVector(buffer)
}

// OnesLike returns new leaves of value 1 shaped like m.
func OnesLike(m *Matrix) *Matrix {
	return matrix.OnesLike(m)
}

// ZerosLike returns new leaves of value 0 shaped like m.
func ZerosLike(m *Matrix) *Matrix {
	return matrix.ZerosLike(m)
}

// FromMat creates leaves on g from a gonum matrix.
func FromMat(g *autograd.Graph, src mat.Matrix) (*Matrix, error) {
	return matrix.FromMat(g, src)
}
