package autograd

import "math"

// OpKind tags the operator that produced a node.
type OpKind uint8

// Operator kinds. Leaf and Compare nodes have no operands and never
// propagate gradient.
const (
	OpLeaf OpKind = iota
	OpCompare
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpAddScalar
	OpSubScalar
	OpRSubScalar
	OpMulScalar
	OpDivScalar
	OpRDivScalar
	OpNeg
	OpPow
	OpExp
	OpLog
	OpTanh
	OpSigmoid
	OpReLU
)

var opNames = [...]string{
	OpLeaf:       "leaf",
	OpCompare:    "compare",
	OpAdd:        "add",
	OpSub:        "sub",
	OpMul:        "mul",
	OpDiv:        "div",
	OpAddScalar:  "add_scalar",
	OpSubScalar:  "sub_scalar",
	OpRSubScalar: "rsub_scalar",
	OpMulScalar:  "mul_scalar",
	OpDivScalar:  "div_scalar",
	OpRDivScalar: "rdiv_scalar",
	OpNeg:        "neg",
	OpPow:        "pow",
	OpExp:        "exp",
	OpLog:        "log",
	OpTanh:       "tanh",
	OpSigmoid:    "sigmoid",
	OpReLU:       "relu",
}

// String returns the operator name.
func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return "unknown"
}

// opRecord is the tagged op description stored on every node.
// operand holds the number folded into mixed tensor/number operations
// and the exponent of OpPow.
type opRecord struct {
	kind    OpKind
	arity   uint8
	inputs  [2]NodeID
	operand float64
}

func unary(kind OpKind, in NodeID, operand float64) opRecord {
	return opRecord{kind: kind, arity: 1, inputs: [2]NodeID{in}, operand: operand}
}

func binary(kind OpKind, a, b NodeID) opRecord {
	return opRecord{kind: kind, arity: 2, inputs: [2]NodeID{a, b}}
}

// propagate pushes the gradient of node id onto its operands.
//
// Chain rule: operand.grad += d(out)/d(operand) * out.grad.
func (g *Graph) propagate(id NodeID) {
	n := &g.nodes[id]
	rec := n.op
	if rec.arity == 0 {
		return
	}
	grad := n.grad
	x := &g.nodes[rec.inputs[0]]

	switch rec.kind {
	case OpAdd:
		x.grad += grad
		g.nodes[rec.inputs[1]].grad += grad
	case OpSub:
		x.grad += grad
		g.nodes[rec.inputs[1]].grad -= grad
	case OpMul:
		y := &g.nodes[rec.inputs[1]]
		x.grad += y.value * grad
		y.grad += x.value * grad
	case OpDiv:
		y := &g.nodes[rec.inputs[1]]
		x.grad += grad / y.value
		y.grad -= x.value * grad / (y.value * y.value)
	case OpAddScalar, OpSubScalar:
		x.grad += grad
	case OpRSubScalar, OpNeg:
		x.grad -= grad
	case OpMulScalar:
		x.grad += rec.operand * grad
	case OpDivScalar:
		x.grad += grad / rec.operand
	case OpRDivScalar:
		x.grad -= rec.operand * grad / (x.value * x.value)
	case OpPow:
		// d/dx x^0 = 0, including at x = 0
		if rec.operand != 0 {
			x.grad += rec.operand * math.Pow(x.value, rec.operand-1) * grad
		}
	case OpExp:
		x.grad += n.value * grad
	case OpLog:
		x.grad += grad / x.value
	case OpTanh:
		x.grad += (1 - n.value*n.value) * grad
	case OpSigmoid:
		x.grad += n.value * (1 - n.value) * grad
	case OpReLU:
		if x.value > 0 {
			x.grad += grad
		}
	}
}
