package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/autograd/internal/matrix"
)

// Linear implements y = x @ W + b with W [in, out] and b [1, out]. The bias
// row is broadcast over the batch.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter
	bias        *Parameter
}

// NewLinear creates a layer with Xavier weights and zero bias.
func NewLinear(name string, inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter(name+".weight", inFeatures, outFeatures, Xavier(rng, inFeatures, outFeatures)),
		bias:        NewParameter(name+".bias", 1, outFeatures, Zeros(outFeatures)),
	}
}

// Forward applies the layer to x [batch, in].
func (l *Linear) Forward(x *matrix.Matrix) (*matrix.Matrix, error) {
	xw, err := x.MatMul(l.weight.Matrix())
	if err != nil {
		return nil, fmt.Errorf("linear %s: %w", l.weight.Name(), err)
	}
	return xw.Add(l.bias.Matrix())
}

// Share returns a layer over the same values. See Parameter.Share.
func (l *Linear) Share() *Linear {
	return &Linear{
		inFeatures:  l.inFeatures,
		outFeatures: l.outFeatures,
		weight:      l.weight.Share(),
		bias:        l.bias.Share(),
	}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the input width.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the output width.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// Parameters implements Module.
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}
