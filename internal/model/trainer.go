package model

import (
	"context"
	"fmt"
	"math/rand"

	"k8s.io/klog/v2"

	"github.com/born-ml/autograd/internal/autograd"
	"github.com/born-ml/autograd/internal/dataset"
	"github.com/born-ml/autograd/internal/diag"
	"github.com/born-ml/autograd/internal/nn"
	"github.com/born-ml/autograd/internal/optim"
	"github.com/born-ml/autograd/internal/parallel"
)

// Trainer runs minibatch SGD over an MLP. One Graph is reused for every step
// and reset before each forward pass.
type Trainer struct {
	model    *MLP
	opt      optim.Optimizer
	graph    *autograd.Graph
	rng      *rand.Rand
	parallel parallel.Config
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithParallel sets how Evaluate spreads chunks over goroutines.
func WithParallel(cfg parallel.Config) TrainerOption {
	return func(t *Trainer) {
		t.parallel = cfg
	}
}

// WithOptimizer replaces the default SGD optimizer.
func WithOptimizer(opt optim.Optimizer) TrainerOption {
	return func(t *Trainer) {
		t.opt = opt
	}
}

// History records the losses seen by Fit.
type History struct {
	Steps     []int
	TrainLoss []float64
	DevLoss   float64
}

// NewTrainer creates a trainer using the model's configuration.
func NewTrainer(m *MLP, opts ...TrainerOption) *Trainer {
	cfg := m.Config()
	t := &Trainer{
		model:    m,
		opt:      optim.NewSGD(m.Parameters(), optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum}),
		graph:    autograd.NewGraph(),
		rng:      rand.New(rand.NewSource(cfg.Seed + 1)), //nolint:gosec // Intentional deterministic seed for reproducibility
		parallel: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Optimizer returns the optimizer.
func (t *Trainer) Optimizer() optim.Optimizer {
	return t.opt
}

// Step runs one forward/backward pass on (x, y), applies the update and
// returns the loss before the update.
func (t *Trainer) Step(ctx context.Context, x [][]int, y []int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	t.graph.Reset()
	loss, err := t.model.Loss(t.graph, x, y)
	if err != nil {
		return 0, fmt.Errorf("train step: %w", err)
	}
	loss.Backward()

	t.opt.ZeroGrad()
	nn.CollectGrads(t.model)
	t.opt.Step()
	return loss.Value(), nil
}

// Evaluate returns the mean loss over all of ds without updating parameters.
// Examples are processed in chunks of BatchSize; chunks run concurrently on
// model replicas, each with its own graph.
func (t *Trainer) Evaluate(ctx context.Context, ds *dataset.Dataset) (float64, error) {
	n := ds.Len()
	if n == 0 {
		return 0, fmt.Errorf("evaluate: empty dataset")
	}
	chunk := t.model.Config().BatchSize

	replicas := make([]*MLP, t.parallel.Workers(n, chunk))
	graphs := make([]*autograd.Graph, len(replicas))
	for i := range replicas {
		replicas[i] = t.model.replica()
		graphs[i] = autograd.NewGraph()
	}

	sums := make([]float64, (n+chunk-1)/chunk)
	err := parallel.ForChunks(ctx, n, chunk, t.parallel, func(_ context.Context, w, c, start, end int) error {
		g := graphs[w]
		g.Reset()
		loss, err := replicas[w].Loss(g, ds.X[start:end], ds.Y[start:end])
		if err != nil {
			return fmt.Errorf("evaluate: %w", err)
		}
		sums[c] = loss.Value() * float64(end-start)
		return nil
	})
	if err != nil {
		return 0, err
	}

	var total float64
	for _, s := range sums {
		total += s
	}
	return total / float64(n), nil
}

// Fit trains for Config.Steps minibatches, then evaluates on dev when it is
// non-nil.
func (t *Trainer) Fit(ctx context.Context, train, dev *dataset.Dataset) (*History, error) {
	log := klog.FromContext(ctx)
	cfg := t.model.Config()

	h := &History{}
	for step := 0; step < cfg.Steps; step++ {
		if cfg.DecayAt > 0 && step == cfg.DecayAt {
			t.opt.SetLR(t.opt.LR() * 0.1)
			log.V(2).Info("learning rate decayed", "step", step, "lr", t.opt.LR())
		}

		x, y := train.Batch(t.rng, cfg.BatchSize)
		loss, err := t.Step(ctx, x, y)
		if err != nil {
			return h, err
		}

		if cfg.LogEvery > 0 && (step%cfg.LogEvery == 0 || step == cfg.Steps-1) {
			h.Steps = append(h.Steps, step)
			h.TrainLoss = append(h.TrainLoss, loss)
			log.Info("training", "step", step, "loss", loss, "nodes", t.graph.Len())
			diag.Record(diag.LevelInfo, "training", "step", step, "loss", loss)
		}
	}

	if dev != nil {
		loss, err := t.Evaluate(ctx, dev)
		if err != nil {
			return h, err
		}
		h.DevLoss = loss
		log.Info("evaluated", "examples", dev.Len(), "loss", loss)
	}
	return h, nil
}
