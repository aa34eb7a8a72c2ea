package model

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/born-ml/autograd/internal/autograd"
	"github.com/born-ml/autograd/internal/generate"
	"github.com/born-ml/autograd/internal/matrix"
	"github.com/born-ml/autograd/internal/nn"
)

// MLP is the embedding → tanh hidden → logits network.
type MLP struct {
	cfg    Config
	vocab  int
	embed  *nn.Embedding
	hidden *nn.Linear
	output *nn.Linear

	// scratch graph for Logits
	infer *autograd.Graph
}

// NewMLP creates a randomly initialized model for a vocabulary of vocabSize
// ids (terminator included).
func NewMLP(cfg Config, vocabSize int) (*MLP, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if vocabSize < 2 {
		return nil, fmt.Errorf("%w: vocabulary of %d ids", ErrInvalidConfig, vocabSize)
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // Intentional deterministic seed for reproducibility
	return &MLP{
		cfg:    cfg,
		vocab:  vocabSize,
		embed:  nn.NewEmbedding("C", vocabSize, cfg.EmbeddingDim, rng),
		hidden: nn.NewLinear("hidden", cfg.BlockSize*cfg.EmbeddingDim, cfg.Hidden, rng),
		output: nn.NewLinear("output", cfg.Hidden, vocabSize, rng),
		infer:  autograd.NewGraph(),
	}, nil
}

// replica returns a model over the same parameter values that binds to its
// own graphs.
func (m *MLP) replica() *MLP {
	return &MLP{
		cfg:    m.cfg,
		vocab:  m.vocab,
		embed:  m.embed.Share(),
		hidden: m.hidden.Share(),
		output: m.output.Share(),
		infer:  autograd.NewGraph(),
	}
}

// Config returns the model configuration.
func (m *MLP) Config() Config {
	return m.cfg
}

// VocabSize returns the number of output classes.
func (m *MLP) VocabSize() int {
	return m.vocab
}

// BlockSize returns the context window length.
func (m *MLP) BlockSize() int {
	return m.cfg.BlockSize
}

// Parameters implements nn.Module.
func (m *MLP) Parameters() []*nn.Parameter {
	return nn.Parameters(m.embed, m.hidden, m.output)
}

// Forward binds the parameters to g and returns logits [len(x), vocab].
func (m *MLP) Forward(g *autograd.Graph, x [][]int) (*matrix.Matrix, error) {
	for i, row := range x {
		if len(row) != m.cfg.BlockSize {
			return nil, fmt.Errorf("forward: example %d has %d ids, want %d: %w",
				i, len(row), m.cfg.BlockSize, autograd.ErrShapeMismatch)
		}
	}
	if err := nn.Bind(g, m); err != nil {
		return nil, err
	}

	emb, err := m.embed.Forward(x)
	if err != nil {
		return nil, fmt.Errorf("forward: %w", err)
	}
	pre, err := m.hidden.Forward(emb)
	if err != nil {
		return nil, fmt.Errorf("forward: %w", err)
	}
	logits, err := m.output.Forward(pre.Tanh())
	if err != nil {
		return nil, fmt.Errorf("forward: %w", err)
	}
	return logits, nil
}

// Loss returns the mean cross-entropy of y given x on g.
func (m *MLP) Loss(g *autograd.Graph, x [][]int, y []int) (autograd.Tensor, error) {
	logits, err := m.Forward(g, x)
	if err != nil {
		return autograd.Tensor{}, err
	}
	return nn.CrossEntropy(logits, y)
}

// Logits scores the next id after context. It is not safe for concurrent use.
func (m *MLP) Logits(context []int) ([]float64, error) {
	m.infer.Reset()
	logits, err := m.Forward(m.infer, [][]int{context})
	if err != nil {
		return nil, err
	}
	return logits.Values(), nil
}

// Sample draws n words by plain multinomial sampling over the softmax of the
// logits, stopping each word at the terminator id. Draws are seeded from rng.
func (m *MLP) Sample(rng *rand.Rand, n int, dec generate.Decoder) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample: negative count %d", n)
	}
	scfg := generate.DefaultSamplingConfig()
	scfg.Seed = rng.Int63()
	gen := generate.NewWordGenerator(m, dec, scfg)

	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		w, err := gen.Generate(context.Background(), generate.DefaultGenerateConfig())
		if err != nil {
			return words, fmt.Errorf("sample: %w", err)
		}
		words = append(words, w)
	}
	return words, nil
}
