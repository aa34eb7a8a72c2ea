package autograd

// Comparison results are 1 or 0 leaves. They have no operands, so Backward
// never propagates through them.

// Eq returns 1 if t == other, else 0.
func (t Tensor) Eq(other Tensor) Tensor {
	a, b := t.with(other, "Eq")
	return t.compare(a.value == b.value)
}

// Ne returns 1 if t != other, else 0.
func (t Tensor) Ne(other Tensor) Tensor {
	a, b := t.with(other, "Ne")
	return t.compare(a.value != b.value)
}

// Lt returns 1 if t < other, else 0.
func (t Tensor) Lt(other Tensor) Tensor {
	a, b := t.with(other, "Lt")
	return t.compare(a.value < b.value)
}

// Le returns 1 if t <= other, else 0.
func (t Tensor) Le(other Tensor) Tensor {
	a, b := t.with(other, "Le")
	return t.compare(a.value <= b.value)
}

// Gt returns 1 if t > other, else 0.
func (t Tensor) Gt(other Tensor) Tensor {
	a, b := t.with(other, "Gt")
	return t.compare(a.value > b.value)
}

// Ge returns 1 if t >= other, else 0.
func (t Tensor) Ge(other Tensor) Tensor {
	a, b := t.with(other, "Ge")
	return t.compare(a.value >= b.value)
}

// EqScalar returns 1 if t == c, else 0.
func (t Tensor) EqScalar(c float64) Tensor {
	return t.compare(t.node("EqScalar").value == c)
}

// NeScalar returns 1 if t != c, else 0.
func (t Tensor) NeScalar(c float64) Tensor {
	return t.compare(t.node("NeScalar").value != c)
}

// LeScalar returns 1 if t <= c, else 0.
func (t Tensor) LeScalar(c float64) Tensor {
	return t.compare(t.node("LeScalar").value <= c)
}

// GeScalar returns 1 if t >= c, else 0.
func (t Tensor) GeScalar(c float64) Tensor {
	return t.compare(t.node("GeScalar").value >= c)
}

// LtScalar returns 1 if t < c, else 0.
func (t Tensor) LtScalar(c float64) Tensor {
	return t.compare(t.node("LtScalar").value < c)
}

// GtScalar returns 1 if t > c, else 0.
func (t Tensor) GtScalar(c float64) Tensor {
	return t.compare(t.node("GtScalar").value > c)
}

func (t Tensor) compare(ok bool) Tensor {
	v := 0.0
	if ok {
		v = 1
	}
	return t.g.push(v, opRecord{kind: OpCompare})
}
