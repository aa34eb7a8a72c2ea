package dataset

import (
	"errors"
	"fmt"
	"math/rand"
)

// Dataset holds parallel context windows and next-token targets.
type Dataset struct {
	X         [][]int
	Y         []int
	BlockSize int
}

// Len returns the number of pairs.
func (d *Dataset) Len() int {
	return len(d.Y)
}

// Batch draws n pairs uniformly with replacement.
func (d *Dataset) Batch(rng *rand.Rand, n int) ([][]int, []int) {
	x := make([][]int, n)
	y := make([]int, n)
	for i := range x {
		k := rng.Intn(len(d.Y))
		x[i] = d.X[k]
		y[i] = d.Y[k]
	}
	return x, y
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	terminate bool
}

// WithTerminator appends one extra pair per word whose target is the
// Terminator id, so a model can learn where words end.
func WithTerminator() BuildOption {
	return func(o *buildOptions) {
		o.terminate = true
	}
}

// Build emits one pair per token of every word. The context window starts as
// blockSize padding ids and slides one token at a time.
func Build(words []string, blockSize int, enc Encoder, opts ...BuildOption) (*Dataset, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("block size %d must be > 0", blockSize)
	}
	var options buildOptions
	for _, opt := range opts {
		opt(&options)
	}

	d := &Dataset{BlockSize: blockSize}
	for _, w := range words {
		ids, err := enc.Encode(w)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", w, err)
		}
		window := make([]int, blockSize)
		for _, id := range ids {
			d.X = append(d.X, append([]int(nil), window...))
			d.Y = append(d.Y, id)
			window = append(window[1:], id)
		}
		if options.terminate {
			d.X = append(d.X, window)
			d.Y = append(d.Y, TerminatorID)
		}
	}
	if d.Len() == 0 {
		return nil, errors.New("no training pairs: word list is empty")
	}
	return d, nil
}

// Split shuffles a copy of words with seed and cuts it at trainFrac and
// devFrac: [0, trainFrac) train, [trainFrac, devFrac) dev, the rest test.
func Split(words []string, seed int64, trainFrac, devFrac float64) (train, dev, test []string) {
	shuffled := append([]string(nil), words...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n1 := int(trainFrac * float64(len(shuffled)))
	n2 := int(devFrac * float64(len(shuffled)))
	n1 = min(max(n1, 0), len(shuffled))
	n2 = min(max(n2, n1), len(shuffled))
	return shuffled[:n1], shuffled[n1:n2], shuffled[n2:]
}
