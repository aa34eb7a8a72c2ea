package model

import (
	"context"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/autograd/internal/autograd"
	"github.com/born-ml/autograd/internal/dataset"
	"github.com/born-ml/autograd/internal/nn"
	"github.com/born-ml/autograd/internal/parallel"
	"github.com/born-ml/autograd/internal/serialization"
)

var words = []string{"emma", "ava", "bob", "anna"}

func tinyConfig() Config {
	cfg := DefaultConfig()
	cfg.BlockSize = 3
	cfg.EmbeddingDim = 4
	cfg.Hidden = 12
	cfg.BatchSize = 8
	cfg.Steps = 20
	cfg.DecayAt = 10
	cfg.LogEvery = 5
	return cfg
}

func tinyData(t *testing.T, cfg Config) (*dataset.CharEncoder, *dataset.Dataset) {
	t.Helper()
	enc := dataset.NewCharEncoder(words)
	ds, err := dataset.Build(words, cfg.BlockSize, enc, dataset.WithTerminator())
	require.NoError(t, err)
	return enc, ds
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"block", func(c *Config) { c.BlockSize = 0 }},
		{"embedding", func(c *Config) { c.EmbeddingDim = -1 }},
		{"hidden", func(c *Config) { c.Hidden = 0 }},
		{"lr", func(c *Config) { c.LR = 0 }},
		{"momentum", func(c *Config) { c.Momentum = 1 }},
		{"steps", func(c *Config) { c.Steps = -1 }},
		{"batch", func(c *Config) { c.BatchSize = 0 }},
		{"decay", func(c *Config) { c.DecayAt = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestNewMLP_Shapes(t *testing.T) {
	cfg := tinyConfig()
	enc, ds := tinyData(t, cfg)
	m, err := NewMLP(cfg, enc.VocabSize())
	require.NoError(t, err)

	params := m.Parameters()
	require.Len(t, params, 5)
	shapes := make([][2]int, len(params))
	for i, p := range params {
		r, c := p.Shape()
		shapes[i] = [2]int{r, c}
	}
	v := enc.VocabSize()
	assert.Equal(t, [][2]int{{v, 4}, {12, 12}, {1, 12}, {12, v}, {1, v}}, shapes)

	logits, err := m.Forward(autograd.NewGraph(), ds.X[:5])
	require.NoError(t, err)
	rows, cols := logits.Shape()
	assert.Equal(t, 5, rows)
	assert.Equal(t, v, cols)

	_, err = m.Forward(autograd.NewGraph(), [][]int{{1, 2}})
	assert.ErrorIs(t, err, autograd.ErrShapeMismatch)

	_, err = NewMLP(cfg, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoss_MatchesFiniteDifferences(t *testing.T) {
	cfg := tinyConfig()
	enc, ds := tinyData(t, cfg)
	m, err := NewMLP(cfg, enc.VocabSize())
	require.NoError(t, err)
	x, y := ds.X[:6], ds.Y[:6]

	lossAt := func() float64 {
		l, err := m.Loss(autograd.NewGraph(), x, y)
		require.NoError(t, err)
		return l.Value()
	}

	loss, err := m.Loss(autograd.NewGraph(), x, y)
	require.NoError(t, err)
	loss.Backward()
	nn.CollectGrads(m)

	const eps = 1e-6
	for _, p := range m.Parameters() {
		data := p.Data()
		for _, i := range []int{0, len(data) / 2, len(data) - 1} {
			orig := data[i]
			data[i] = orig + eps
			plus := lossAt()
			data[i] = orig - eps
			minus := lossAt()
			data[i] = orig

			numeric := (plus - minus) / (2 * eps)
			assert.InDelta(t, numeric, p.Grad()[i], 1e-5, "%s[%d]", p.Name(), i)
		}
	}
}

func TestStep_LossDecreases(t *testing.T) {
	cfg := tinyConfig()
	enc, ds := tinyData(t, cfg)
	m, err := NewMLP(cfg, enc.VocabSize())
	require.NoError(t, err)
	tr := NewTrainer(m)

	first, err := tr.Step(context.Background(), ds.X, ds.Y)
	require.NoError(t, err)
	var last float64
	for i := 0; i < 30; i++ {
		last, err = tr.Step(context.Background(), ds.X, ds.Y)
		require.NoError(t, err)
	}
	assert.Less(t, last, first)
}

func TestStep_Canceled(t *testing.T) {
	cfg := tinyConfig()
	enc, ds := tinyData(t, cfg)
	m, err := NewMLP(cfg, enc.VocabSize())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewTrainer(m).Step(ctx, ds.X, ds.Y)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate_ChunkedMean(t *testing.T) {
	cfg := tinyConfig()
	cfg.BatchSize = 4
	enc, ds := tinyData(t, cfg)
	m, err := NewMLP(cfg, enc.VocabSize())
	require.NoError(t, err)

	whole, err := m.Loss(autograd.NewGraph(), ds.X, ds.Y)
	require.NoError(t, err)

	got, err := NewTrainer(m).Evaluate(context.Background(), ds)
	require.NoError(t, err)
	assert.InDelta(t, whole.Value(), got, 1e-9)
}

func TestFit(t *testing.T) {
	cfg := tinyConfig()
	enc, ds := tinyData(t, cfg)
	m, err := NewMLP(cfg, enc.VocabSize())
	require.NoError(t, err)
	tr := NewTrainer(m)

	h, err := tr.Fit(context.Background(), ds, ds)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 5, 10, 15, 19}, h.Steps)
	assert.Len(t, h.TrainLoss, 5)
	assert.Greater(t, h.DevLoss, 0.0)
	assert.InDelta(t, cfg.LR*0.1, tr.Optimizer().LR(), 1e-12)
}

func TestLogits(t *testing.T) {
	cfg := tinyConfig()
	enc, _ := tinyData(t, cfg)
	m, err := NewMLP(cfg, enc.VocabSize())
	require.NoError(t, err)

	logits, err := m.Logits([]int{0, 0, 0})
	require.NoError(t, err)
	assert.Len(t, logits, enc.VocabSize())

	again, err := m.Logits([]int{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, logits, again)
}

func TestSample(t *testing.T) {
	cfg := tinyConfig()
	enc, ds := tinyData(t, cfg)
	m, err := NewMLP(cfg, enc.VocabSize())
	require.NoError(t, err)
	_, err = NewTrainer(m).Fit(context.Background(), ds, nil)
	require.NoError(t, err)

	got, err := m.Sample(rand.New(rand.NewSource(7)), 5, enc)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for _, w := range got {
		assert.LessOrEqual(t, len(w), 32)
		for _, r := range w {
			assert.True(t, strings.ContainsRune("emavbn", r), "unexpected rune %q in %q", r, w)
		}
	}

	again, err := m.Sample(rand.New(rand.NewSource(7)), 5, enc)
	require.NoError(t, err)
	assert.Equal(t, got, again, "same seed must give the same words")

	none, err := m.Sample(rand.New(rand.NewSource(7)), 0, enc)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = m.Sample(rand.New(rand.NewSource(7)), -1, enc)
	assert.Error(t, err)
}

func TestEvaluate_ParallelMatchesSequential(t *testing.T) {
	cfg := tinyConfig()
	cfg.BatchSize = 3
	enc, ds := tinyData(t, cfg)
	m, err := NewMLP(cfg, enc.VocabSize())
	require.NoError(t, err)

	seq, err := NewTrainer(m, WithParallel(parallel.Config{Enabled: false})).Evaluate(context.Background(), ds)
	require.NoError(t, err)
	par, err := NewTrainer(m, WithParallel(parallel.Config{Enabled: true, NumWorkers: 4})).Evaluate(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, seq, par)

	_, err = NewTrainer(m).Evaluate(context.Background(), &dataset.Dataset{})
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	cfg := tinyConfig()
	enc, ds := tinyData(t, cfg)
	m, err := NewMLP(cfg, enc.VocabSize())
	require.NoError(t, err)
	_, err = NewTrainer(m).Step(context.Background(), ds.X, ds.Y)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "names.born")
	require.NoError(t, m.Save(path, &serialization.CheckpointMeta{Step: 1, OptimizerType: "SGD"}))

	loaded, header, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModelType, header.ModelType)
	assert.Equal(t, int64(1), header.CheckpointMeta.Step)
	assert.Equal(t, cfg, loaded.Config())
	assert.Equal(t, m.StateDict(), loaded.StateDict())

	want, err := m.Logits([]int{0, 0, 1})
	require.NoError(t, err)
	got, err := loaded.Logits([]int{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadStateDict_Mismatch(t *testing.T) {
	cfg := tinyConfig()
	m, err := NewMLP(cfg, 5)
	require.NoError(t, err)

	state := m.StateDict()
	delete(state, "output.bias")
	assert.Error(t, m.LoadStateDict(state))

	state = m.StateDict()
	state["C.weight"] = serialization.Tensor{Shape: []int{1, 1}, Data: []float64{0}}
	assert.Error(t, m.LoadStateDict(state))
}
