package autograd

import "github.com/born-ml/autograd/internal/diag"

// Backward computes gradients for every node reachable from t.
//
// Algorithm:
//  1. Seed t.grad = 1.
//  2. Collect a post-order DFS from t (operands before consumers), visiting
//     each node once.
//  3. Walk that order in reverse, pushing each node's gradient to its operands.
//
// Gradients accumulate: calling Backward twice without ZeroGrad adds the second
// pass on top of the first. Nodes not reachable from t are untouched.
func (t Tensor) Backward() {
	t.node("Backward").grad = 1
	g := t.g

	order := g.topoOrder(t.id)
	for i := len(order) - 1; i >= 0; i-- {
		g.propagate(order[i])
	}

	diag.Record(diag.LevelDebug, "backward pass complete", "root", int(t.id), "nodes", len(order))
}

// TopoOrder returns the nodes reachable from root in topological order:
// every node appears after all of its operands.
func (g *Graph) TopoOrder(root Tensor) []NodeID {
	if root.g != g {
		panic("TopoOrder: tensor belongs to a different graph")
	}
	root.node("TopoOrder")
	return g.topoOrder(root.id)
}

// topoOrder is an iterative post-order DFS. The visited set is indexed by
// node id, so shared ancestors are expanded exactly once.
func (g *Graph) topoOrder(root NodeID) []NodeID {
	type frame struct {
		id   NodeID
		next uint8
	}

	visited := make([]bool, len(g.nodes))
	order := make([]NodeID, 0, 64)
	stack := []frame{{id: root}}
	visited[root] = true

	for len(stack) > 0 {
		top := len(stack) - 1
		rec := &g.nodes[stack[top].id].op
		if stack[top].next < rec.arity {
			in := rec.inputs[stack[top].next]
			stack[top].next++
			if !visited[in] {
				visited[in] = true
				stack = append(stack, frame{id: in})
			}
			continue
		}
		order = append(order, stack[top].id)
		stack = stack[:top]
	}
	return order
}
