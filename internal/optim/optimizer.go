// Package optim implements optimizers over nn parameters.
package optim

import "github.com/born-ml/autograd/internal/nn"

// Optimizer updates parameter values from their collected gradients.
type Optimizer interface {
	// Step applies one update.
	Step()

	// ZeroGrad clears the collected gradients.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float64

	// SetLR changes the learning rate, e.g. for a step decay schedule.
	SetLR(lr float64)
}

func zeroGrads(params []*nn.Parameter) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
