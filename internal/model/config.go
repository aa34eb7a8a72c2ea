// Package model implements a character-level MLP language model trained on
// the scalar autodiff core.
//
// Each example is a window of BlockSize previous ids. The ids are looked up
// in an embedding table, flattened, passed through one tanh hidden layer and
// projected to one logit per vocabulary entry.
package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the model and training hyperparameters.
type Config struct {
	// Model shape
	BlockSize    int // context window length
	EmbeddingDim int // width of one embedded id
	Hidden       int // hidden layer width

	// Training
	LR        float64 // initial learning rate
	Momentum  float64 // SGD momentum, 0 = plain SGD
	Steps     int     // minibatch steps
	BatchSize int     // examples per step
	DecayAt   int     // step at which LR is multiplied by 0.1, 0 = never
	LogEvery  int     // progress logging interval in steps, 0 = never

	// Seed drives initialization and minibatch sampling.
	Seed int64
}

// DefaultConfig returns the hyperparameters of the reference names model.
func DefaultConfig() Config {
	return Config{
		BlockSize:    3,
		EmbeddingDim: 8,
		Hidden:       64,
		LR:           0.1,
		Momentum:     0,
		Steps:        2000,
		BatchSize:    32,
		DecayAt:      1500,
		LogEvery:     100,
		Seed:         42,
	}
}

// Validate reports the first unusable field.
func (c Config) Validate() error {
	switch {
	case c.BlockSize <= 0:
		return fmt.Errorf("%w: BlockSize %d must be > 0", ErrInvalidConfig, c.BlockSize)
	case c.EmbeddingDim <= 0:
		return fmt.Errorf("%w: EmbeddingDim %d must be > 0", ErrInvalidConfig, c.EmbeddingDim)
	case c.Hidden <= 0:
		return fmt.Errorf("%w: Hidden %d must be > 0", ErrInvalidConfig, c.Hidden)
	case c.LR <= 0:
		return fmt.Errorf("%w: LR %g must be > 0", ErrInvalidConfig, c.LR)
	case c.Momentum < 0 || c.Momentum >= 1:
		return fmt.Errorf("%w: Momentum %g must be in [0, 1)", ErrInvalidConfig, c.Momentum)
	case c.Steps < 0:
		return fmt.Errorf("%w: Steps %d must be >= 0", ErrInvalidConfig, c.Steps)
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: BatchSize %d must be > 0", ErrInvalidConfig, c.BatchSize)
	case c.DecayAt < 0 || c.LogEvery < 0:
		return fmt.Errorf("%w: DecayAt and LogEvery must be >= 0", ErrInvalidConfig)
	}
	return nil
}
