// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autograd provides scalar reverse-mode automatic differentiation.
//
// Every value is a Tensor: a handle to one node of a Graph. Operations append
// nodes and record how they were produced; Backward walks the recorded graph
// from a root and accumulates d(root)/d(node) into every reachable node.
//
// Example:
//
//	g := autograd.NewGraph()
//	a := g.Scalar(2)
//	b := g.Scalar(4)
//	c := a.Mul(b)
//	c.Backward()
//	fmt.Println(c.Value(), a.Grad(), b.Grad()) // 8 4 2
package autograd

import "github.com/born-ml/autograd/internal/autograd"

// Graph owns the nodes of one computation.
type Graph = autograd.Graph

// Tensor is a handle to a scalar node.
type Tensor = autograd.Tensor

// NodeID addresses a node within its Graph.
type NodeID = autograd.NodeID

// OpKind identifies the operation that produced a node.
type OpKind = autograd.OpKind

// Operation kinds.
const (
	OpLeaf       = autograd.OpLeaf
	OpCompare    = autograd.OpCompare
	OpAdd        = autograd.OpAdd
	OpSub        = autograd.OpSub
	OpMul        = autograd.OpMul
	OpDiv        = autograd.OpDiv
	OpAddScalar  = autograd.OpAddScalar
	OpSubScalar  = autograd.OpSubScalar
	OpRSubScalar = autograd.OpRSubScalar
	OpMulScalar  = autograd.OpMulScalar
	OpDivScalar  = autograd.OpDivScalar
	OpRDivScalar = autograd.OpRDivScalar
	OpNeg        = autograd.OpNeg
	OpPow        = autograd.OpPow
	OpExp        = autograd.OpExp
	OpLog        = autograd.OpLog
	OpTanh       = autograd.OpTanh
	OpSigmoid    = autograd.OpSigmoid
	OpReLU       = autograd.OpReLU
)

// Errors returned by shape- and domain-checked operations.
var (
	ErrShapeMismatch   = autograd.ErrShapeMismatch
	ErrIndexOutOfRange = autograd.ErrIndexOutOfRange
	ErrInvalidAxis     = autograd.ErrInvalidAxis
	ErrDomain          = autograd.ErrDomain
)

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return autograd.NewGraph()
}
