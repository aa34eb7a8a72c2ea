package generate

import (
	"context"
	"fmt"
	"strings"
)

// GenerateConfig configures word generation.
//
//nolint:revive // GenerateConfig is clearer than Config
type GenerateConfig struct {
	// MaxTokens bounds the word length when the terminator is never drawn.
	MaxTokens int

	// Sampling is the sampling configuration.
	Sampling SamplingConfig
}

// DefaultGenerateConfig returns sensible defaults for generation.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		MaxTokens: 32,
		Sampling:  DefaultSamplingConfig(),
	}
}

// Model predicts the next id from a fixed-size context window.
type Model interface {
	// BlockSize returns the context window length.
	BlockSize() int

	// Logits returns one unnormalized score per vocabulary id.
	Logits(context []int) ([]float64, error)
}

// Decoder maps ids back to text.
type Decoder interface {
	Decode(ids []int) (string, error)
}

// GenerateResult is a single result from streaming generation.
//
//nolint:revive // GenerateResult is clearer than Result
type GenerateResult struct {
	Token   string // Decoded token text
	TokenID int    // Token ID
	Done    bool   // Is generation complete
	Reason  string // Stop reason: "eos", "max_tokens", "canceled"
	Error   error  // Error if any
}

// Terminator is the id that ends a word.
const Terminator = 0

// WordGenerator samples whole words from a Model.
type WordGenerator struct {
	model   Model
	decoder Decoder
	sampler *Sampler
}

// NewWordGenerator creates a generator.
func NewWordGenerator(model Model, decoder Decoder, samplingConfig SamplingConfig) *WordGenerator {
	return &WordGenerator{
		model:   model,
		decoder: decoder,
		sampler: NewSampler(samplingConfig),
	}
}

// Generate samples one word.
func (g *WordGenerator) Generate(ctx context.Context, config GenerateConfig) (string, error) {
	var word strings.Builder
	err := g.generate(ctx, config, func(res GenerateResult) bool {
		if res.Error != nil {
			return false
		}
		word.WriteString(res.Token)
		return !res.Done
	})
	if err != nil {
		return "", err
	}
	return word.String(), nil
}

// GenerateStream samples one word and delivers ids as they are drawn. The
// channel is closed after the final result.
func (g *WordGenerator) GenerateStream(ctx context.Context, config GenerateConfig) <-chan GenerateResult {
	ch := make(chan GenerateResult, 1)
	go func() {
		defer close(ch)
		err := g.generate(ctx, config, func(res GenerateResult) bool {
			select {
			case ch <- res:
				return !res.Done
			case <-ctx.Done():
				return false
			}
		})
		if err != nil {
			select {
			case ch <- GenerateResult{Done: true, Error: err}:
			case <-ctx.Done():
			}
		}
	}()
	return ch
}

// generate is the core sampling loop.
func (g *WordGenerator) generate(ctx context.Context, config GenerateConfig, callback func(GenerateResult) bool) error {
	if config.MaxTokens <= 0 {
		return fmt.Errorf("generate: MaxTokens must be positive, got %d", config.MaxTokens)
	}

	window := make([]int, g.model.BlockSize())
	for i := 0; i < config.MaxTokens; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		logits, err := g.model.Logits(window)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		next := g.sampler.Sample(logits)

		res := GenerateResult{TokenID: next}
		switch {
		case next == Terminator:
			res.Done, res.Reason = true, "eos"
		case i == config.MaxTokens-1:
			res.Done, res.Reason = true, "max_tokens"
		}
		if next != Terminator {
			text, err := g.decoder.Decode([]int{next})
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			res.Token = text
		}

		if !callback(res) || res.Done {
			return nil
		}

		copy(window, window[1:])
		window[len(window)-1] = next
	}
	return nil
}
