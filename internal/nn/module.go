package nn

import "github.com/born-ml/autograd/internal/autograd"

// Module is anything that owns parameters.
type Module interface {
	Parameters() []*Parameter
}

// Parameters flattens the parameters of every module.
func Parameters(modules ...Module) []*Parameter {
	var out []*Parameter
	for _, m := range modules {
		out = append(out, m.Parameters()...)
	}
	return out
}

// Bind binds every parameter of modules to g.
func Bind(g *autograd.Graph, modules ...Module) error {
	for _, p := range Parameters(modules...) {
		if _, err := p.Bind(g); err != nil {
			return err
		}
	}
	return nil
}

// CollectGrads copies gradients out of the graph for every parameter.
func CollectGrads(modules ...Module) {
	for _, p := range Parameters(modules...) {
		p.CollectGrad()
	}
}
