package optim

import "github.com/born-ml/autograd/internal/nn"

// SGDConfig configures stochastic gradient descent.
type SGDConfig struct {
	LR       float64
	Momentum float64
}

// SGD implements gradient descent with optional momentum:
//
//	v = momentum*v + grad
//	param -= lr * v
//
// With Momentum 0 this is plain SGD: param -= lr * grad.
type SGD struct {
	params     []*nn.Parameter
	lr         float64
	momentum   float64
	velocities map[*nn.Parameter][]float64
}

// NewSGD creates an SGD optimizer. A zero LR defaults to 0.01.
func NewSGD(params []*nn.Parameter, cfg SGDConfig) *SGD {
	if cfg.LR == 0 {
		cfg.LR = 0.01
	}
	return &SGD{
		params:     params,
		lr:         cfg.LR,
		momentum:   cfg.Momentum,
		velocities: make(map[*nn.Parameter][]float64),
	}
}

// Step implements Optimizer.
func (s *SGD) Step() {
	for _, p := range s.params {
		data, grad := p.Data(), p.Grad()
		if s.momentum == 0 {
			for i, gv := range grad {
				data[i] -= s.lr * gv
			}
			continue
		}
		v, ok := s.velocities[p]
		if !ok {
			v = make([]float64, len(grad))
			s.velocities[p] = v
		}
		for i, gv := range grad {
			v[i] = s.momentum*v[i] + gv
			data[i] -= s.lr * v[i]
		}
	}
}

// ZeroGrad implements Optimizer.
func (s *SGD) ZeroGrad() {
	zeroGrads(s.params)
}

// LR implements Optimizer.
func (s *SGD) LR() float64 {
	return s.lr
}

// SetLR implements Optimizer.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}
