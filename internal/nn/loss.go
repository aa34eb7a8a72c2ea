package nn

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autograd"
	"github.com/born-ml/autograd/internal/matrix"
)

// CrossEntropy returns the mean negative log-likelihood of targets under
// softmax(logits).
//
// logits is [batch, classes]; targets holds one class id per row. The row max
// is subtracted first for numerical stability; it does not change the result
// or the gradient.
func CrossEntropy(logits *matrix.Matrix, targets []int) (autograd.Tensor, error) {
	rowMax, err := logits.Max(1, true)
	if err != nil {
		return autograd.Tensor{}, fmt.Errorf("cross entropy: %w", err)
	}
	shifted, err := logits.Sub(rowMax)
	if err != nil {
		return autograd.Tensor{}, fmt.Errorf("cross entropy: %w", err)
	}
	counts := shifted.Exp()
	total, err := counts.Sum(1, true)
	if err != nil {
		return autograd.Tensor{}, fmt.Errorf("cross entropy: %w", err)
	}
	logTotal, err := total.Log()
	if err != nil {
		return autograd.Tensor{}, fmt.Errorf("cross entropy: %w", err)
	}
	logProbs, err := shifted.Sub(logTotal)
	if err != nil {
		return autograd.Tensor{}, fmt.Errorf("cross entropy: %w", err)
	}
	picked, err := logProbs.PickColumns(targets)
	if err != nil {
		return autograd.Tensor{}, fmt.Errorf("cross entropy targets: %w", err)
	}
	return picked.Mean().Neg(), nil
}
