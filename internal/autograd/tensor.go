package autograd

import (
	"fmt"
	"math"

	"github.com/born-ml/autograd/internal/diag"
)

// Tensor is a handle to a scalar node.
//
// Copying a Tensor copies the handle, not the node: both copies read and
// accumulate into the same gradient slot. The zero Tensor is invalid.
type Tensor struct {
	g   *Graph
	id  NodeID
	gen uint32
}

// Graph returns the arena that owns t.
func (t Tensor) Graph() *Graph {
	return t.g
}

// ID returns the node id of t inside its graph.
func (t Tensor) ID() NodeID {
	return t.id
}

// Valid reports whether t refers to a live node.
func (t Tensor) Valid() bool {
	return t.g != nil && t.gen == t.g.generation && int(t.id) < len(t.g.nodes)
}

// Value returns the forward value.
func (t Tensor) Value() float64 {
	return t.node("Value").value
}

// Grad returns the accumulated gradient.
func (t Tensor) Grad() float64 {
	return t.node("Grad").grad
}

// Op returns the operator that produced t.
func (t Tensor) Op() OpKind {
	return t.node("Op").op.kind
}

// Inputs returns the operands t was computed from, in order.
func (t Tensor) Inputs() []Tensor {
	rec := t.node("Inputs").op
	out := make([]Tensor, rec.arity)
	for i := range out {
		out[i] = Tensor{g: t.g, id: rec.inputs[i], gen: t.gen}
	}
	return out
}

// IsLeaf reports whether t has no operands.
func (t Tensor) IsLeaf() bool {
	return t.node("IsLeaf").op.arity == 0
}

// String formats the forward value.
func (t Tensor) String() string {
	if !t.Valid() {
		return "Tensor(invalid)"
	}
	return fmt.Sprintf("%g", t.Value())
}

func (t Tensor) node(op string) *node {
	if t.g == nil {
		panic(op + ": zero Tensor")
	}
	return t.g.at(t, op)
}

func (t Tensor) with(other Tensor, op string) (*node, *node) {
	if other.g != t.g {
		panic(op + ": operands belong to different graphs")
	}
	return t.node(op), other.node(op)
}

// Add returns t + other.
func (t Tensor) Add(other Tensor) Tensor {
	a, b := t.with(other, "Add")
	return t.g.push(a.value+b.value, binary(OpAdd, t.id, other.id))
}

// Sub returns t - other.
func (t Tensor) Sub(other Tensor) Tensor {
	a, b := t.with(other, "Sub")
	return t.g.push(a.value-b.value, binary(OpSub, t.id, other.id))
}

// Mul returns t * other.
func (t Tensor) Mul(other Tensor) Tensor {
	a, b := t.with(other, "Mul")
	return t.g.push(a.value*b.value, binary(OpMul, t.id, other.id))
}

// Div returns t / other. Division by zero fails with ErrDomain.
func (t Tensor) Div(other Tensor) (Tensor, error) {
	a, b := t.with(other, "Div")
	if b.value == 0 {
		return Tensor{}, domainError("Div", "division by zero", a.value)
	}
	return t.g.push(a.value/b.value, binary(OpDiv, t.id, other.id)), nil
}

// AddScalar returns t + c.
func (t Tensor) AddScalar(c float64) Tensor {
	return t.g.push(t.node("AddScalar").value+c, unary(OpAddScalar, t.id, c))
}

// SubScalar returns t - c.
func (t Tensor) SubScalar(c float64) Tensor {
	return t.g.push(t.node("SubScalar").value-c, unary(OpSubScalar, t.id, c))
}

// RSubScalar returns c - t.
func (t Tensor) RSubScalar(c float64) Tensor {
	return t.g.push(c-t.node("RSubScalar").value, unary(OpRSubScalar, t.id, c))
}

// MulScalar returns t * c.
func (t Tensor) MulScalar(c float64) Tensor {
	return t.g.push(t.node("MulScalar").value*c, unary(OpMulScalar, t.id, c))
}

// DivScalar returns t / c. A zero divisor fails with ErrDomain.
func (t Tensor) DivScalar(c float64) (Tensor, error) {
	v := t.node("DivScalar").value
	if c == 0 {
		return Tensor{}, domainError("DivScalar", "division by zero", v)
	}
	return t.g.push(v/c, unary(OpDivScalar, t.id, c)), nil
}

// RDivScalar returns c / t. A zero t fails with ErrDomain.
func (t Tensor) RDivScalar(c float64) (Tensor, error) {
	v := t.node("RDivScalar").value
	if v == 0 {
		return Tensor{}, domainError("RDivScalar", "division by zero", v)
	}
	return t.g.push(c/v, unary(OpRDivScalar, t.id, c)), nil
}

// Neg returns -t.
func (t Tensor) Neg() Tensor {
	return t.g.push(-t.node("Neg").value, unary(OpNeg, t.id, 0))
}

// Pow returns t^n. Fails with ErrDomain when the result is not finite,
// e.g. 0^-1 or (-2)^0.5, or when the derivative at 0 is unbounded
// (0^n with 0 < n < 1).
func (t Tensor) Pow(n float64) (Tensor, error) {
	v := t.node("Pow").value
	r := math.Pow(v, n)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return Tensor{}, domainError("Pow", fmt.Sprintf("non-finite result for exponent %g", n), v)
	}
	if v == 0 && n > 0 && n < 1 {
		return Tensor{}, domainError("Pow", fmt.Sprintf("unbounded derivative for exponent %g", n), v)
	}
	return t.g.push(r, unary(OpPow, t.id, n)), nil
}

// Exp returns e^t.
func (t Tensor) Exp() Tensor {
	return t.g.push(math.Exp(t.node("Exp").value), unary(OpExp, t.id, 0))
}

// Log returns the natural logarithm of t. Non-positive t fails with ErrDomain.
func (t Tensor) Log() (Tensor, error) {
	v := t.node("Log").value
	if v <= 0 {
		return Tensor{}, domainError("Log", "non-positive argument", v)
	}
	return t.g.push(math.Log(v), unary(OpLog, t.id, 0)), nil
}

// Tanh returns the hyperbolic tangent of t.
func (t Tensor) Tanh() Tensor {
	return t.g.push(math.Tanh(t.node("Tanh").value), unary(OpTanh, t.id, 0))
}

// Sigmoid returns 1 / (1 + e^-t).
func (t Tensor) Sigmoid() Tensor {
	v := t.node("Sigmoid").value
	return t.g.push(1/(1+math.Exp(-v)), unary(OpSigmoid, t.id, 0))
}

// ReLU returns max(0, t).
func (t Tensor) ReLU() Tensor {
	return t.g.push(math.Max(0, t.node("ReLU").value), unary(OpReLU, t.id, 0))
}

func domainError(op, reason string, v float64) error {
	err := fmt.Errorf("%s: %s (value %g): %w", op, reason, v, ErrDomain)
	diag.Record(diag.LevelError, "scalar operation failed", "op", op, "err", err)
	return err
}
