// Package generate samples new words from a trained next-token model.
//
// The model sees a fixed window of the previous ids (zeros at the start of a
// word) and returns one logit per vocabulary entry. Sampling repeats until the
// terminator id 0 is drawn or the length limit is reached.
package generate

import (
	"math"
	"math/rand"
	"sort"
)

// SamplingConfig configures how the next id is drawn from logits.
type SamplingConfig struct {
	// Temperature controls randomness. 0 = greedy, 1 = normal, >1 = more random.
	Temperature float64

	// TopK limits sampling to top K ids. 0 = disabled.
	TopK int

	// TopP (nucleus sampling) keeps the smallest set of ids whose
	// probability mass exceeds P. 1.0 = disabled.
	TopP float64

	// Seed for reproducibility. -1 = random.
	Seed int64
}

// DefaultSamplingConfig returns plain multinomial sampling.
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Temperature: 1.0,
		TopK:        0,
		TopP:        1.0,
		Seed:        -1,
	}
}

// Sampler draws ids from logits.
type Sampler struct {
	config SamplingConfig
	rng    *rand.Rand
}

// NewSampler creates a sampler with the given configuration.
func NewSampler(config SamplingConfig) *Sampler {
	var rng *rand.Rand
	if config.Seed >= 0 {
		rng = rand.New(rand.NewSource(config.Seed)) //nolint:gosec // Intentional deterministic seed for reproducibility
	} else {
		rng = rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // User requested random seed
	}
	return &Sampler{config: config, rng: rng}
}

// Sample returns the next id.
//
// The sampling process:
//  1. Apply temperature scaling (argmax if temperature=0)
//  2. Apply Top-K filtering
//  3. Apply Top-P (nucleus) filtering
//  4. Sample from the softmax distribution
func (s *Sampler) Sample(logits []float64) int {
	logits = append([]float64{}, logits...)

	if s.config.Temperature == 0 {
		return argmax(logits)
	}
	if s.config.Temperature != 1.0 {
		for i := range logits {
			logits[i] /= s.config.Temperature
		}
	}

	if s.config.TopK > 0 && s.config.TopK < len(logits) {
		s.topKFilter(logits)
	}
	if s.config.TopP > 0 && s.config.TopP < 1.0 {
		s.topPFilter(logits)
	}

	return s.multinomial(Softmax(logits))
}

func argmax(logits []float64) int {
	best := 0
	for i, v := range logits[1:] {
		if v > logits[best] {
			best = i + 1
		}
	}
	return best
}

// topKFilter keeps only the top K logits and sets the rest to -inf.
func (s *Sampler) topKFilter(logits []float64) {
	sorted := append([]float64{}, logits...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	threshold := sorted[s.config.TopK-1]
	for i := range logits {
		if logits[i] < threshold {
			logits[i] = math.Inf(-1)
		}
	}
}

// topPFilter implements nucleus sampling.
func (s *Sampler) topPFilter(logits []float64) {
	probs := Softmax(logits)
	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return probs[order[a]] > probs[order[b]] })

	var cum float64
	cutoff := len(order) - 1
	for i, id := range order {
		cum += probs[id]
		if cum > s.config.TopP {
			cutoff = i
			break
		}
	}
	for _, id := range order[cutoff+1:] {
		logits[id] = math.Inf(-1)
	}
}

// multinomial samples from a categorical distribution.
func (s *Sampler) multinomial(probs []float64) int {
	r := s.rng.Float64()
	var cum float64
	for i, p := range probs {
		cum += p
		if r < cum {
			return i
		}
	}
	// rounding
	return len(probs) - 1
}

// Softmax converts logits to probabilities. -Inf entries get probability 0.
func Softmax(logits []float64) []float64 {
	maxVal := math.Inf(-1)
	for _, v := range logits {
		if v > maxVal {
			maxVal = v
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		if math.IsInf(v, -1) {
			continue
		}
		probs[i] = math.Exp(v - maxVal)
		sum += probs[i]
	}
	if sum > 0 {
		for i := range probs {
			probs[i] /= sum
		}
	}
	return probs
}
