// Package autograd implements a scalar reverse-mode automatic differentiation
// engine.
//
// Every arithmetic operation on a Tensor appends a node to the Graph arena that
// owns it. A node stores its forward value, an accumulated gradient and an op
// record naming the operator and the ids of its operands. Edges only point at
// nodes created earlier, so the arena is always a DAG.
//
// Example:
//
//	g := autograd.NewGraph()
//	a := g.Scalar(2)
//	b := g.Scalar(3)
//	c := a.Mul(b).Add(a) // 8
//	c.Backward()
//	_ = a.Grad() // 4
//	_ = b.Grad() // 2
package autograd

import "fmt"

// NodeID addresses a node inside its Graph.
type NodeID int

type node struct {
	value float64
	grad  float64
	op    opRecord
}

// Graph is the arena that owns every node of a computation.
//
// A Graph is not safe for concurrent use. Build the forward pass and run
// Backward on a single goroutine, then Reset before the next cycle.
type Graph struct {
	nodes      []node
	generation uint32
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make([]node, 0, 256),
	}
}

// Scalar creates a leaf node holding value.
func (g *Graph) Scalar(value float64) Tensor {
	return g.push(value, opRecord{kind: OpLeaf})
}

// Scalars creates one leaf per value, in order.
func (g *Graph) Scalars(values []float64) []Tensor {
	out := make([]Tensor, len(values))
	for i, v := range values {
		out[i] = g.Scalar(v)
	}
	return out
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// ZeroGrad clears every gradient slot in the arena.
func (g *Graph) ZeroGrad() {
	for i := range g.nodes {
		g.nodes[i].grad = 0
	}
}

// Reset drops all nodes. Tensors created before the call become invalid and
// panic when used.
func (g *Graph) Reset() {
	g.nodes = g.nodes[:0]
	g.generation++
}

func (g *Graph) push(value float64, op opRecord) Tensor {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node{value: value, op: op})
	return Tensor{g: g, id: id, gen: g.generation}
}

// at returns the node behind t, panicking on handles that do not belong here.
func (g *Graph) at(t Tensor, op string) *node {
	if t.g != g {
		panic(fmt.Sprintf("%s: tensor belongs to a different graph", op))
	}
	if t.gen != g.generation || int(t.id) >= len(g.nodes) {
		panic(fmt.Sprintf("%s: stale tensor handle %d (graph was reset)", op, t.id))
	}
	return &g.nodes[t.id]
}
