// Package main trains a character-level MLP on a word list and samples new
// words from it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"k8s.io/klog/v2"

	"github.com/born-ml/autograd/internal/dataset"
	"github.com/born-ml/autograd/internal/diag"
	"github.com/born-ml/autograd/internal/generate"
	"github.com/born-ml/autograd/internal/model"
	"github.com/born-ml/autograd/internal/parallel"
	"github.com/born-ml/autograd/internal/serialization"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("autograd %s\n", version)
		return
	}

	err := run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	defer klog.Flush()

	cfg := model.DefaultConfig()

	data := os.Getenv("AUTOGRAD_DATA")
	if data == "" {
		data = "names.txt"
	}
	flag.StringVar(&data, "data", data, "word list, one per line; local path or gs://bucket/object (env AUTOGRAD_DATA)")
	tokenizer := flag.String("tokenizer", "char", `"char" or a tiktoken encoding name such as "cl100k_base"`)
	logMode := flag.String("log-mode", "info", "core diagnostics: debug, info, optimized or none")
	samples := flag.Int("samples", 10, "words to sample after training")
	temperature := flag.Float64("temperature", 1.0, "sampling temperature, 0 = greedy")
	savePath := flag.String("save", "", "write the trained model to this .born file")
	loadPath := flag.String("load", "", "start from a model saved with -save; its shape flags win")
	workers := flag.Int("workers", parallel.DefaultConfig().NumWorkers, "goroutines used for evaluation")

	flag.IntVar(&cfg.BlockSize, "block", cfg.BlockSize, "context window length")
	flag.IntVar(&cfg.EmbeddingDim, "emb", cfg.EmbeddingDim, "embedding width")
	flag.IntVar(&cfg.Hidden, "hidden", cfg.Hidden, "hidden layer width")
	flag.Float64Var(&cfg.LR, "lr", cfg.LR, "initial learning rate")
	flag.Float64Var(&cfg.Momentum, "momentum", cfg.Momentum, "SGD momentum")
	flag.IntVar(&cfg.Steps, "steps", cfg.Steps, "training steps")
	flag.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "minibatch size")
	flag.IntVar(&cfg.DecayAt, "decay-at", cfg.DecayAt, "step at which the learning rate drops 10x, 0 = never")
	flag.IntVar(&cfg.LogEvery, "log-every", cfg.LogEvery, "progress interval in steps")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")

	klog.InitFlags(nil)
	flag.Parse()

	log := klog.FromContext(ctx)

	mode, err := diag.ParseMode(*logMode)
	if err != nil {
		return err
	}
	diag.SetMode(mode)

	if err := cfg.Validate(); err != nil {
		return err
	}

	words, err := dataset.ReadWords(ctx, data)
	if err != nil {
		return err
	}
	log.Info("loaded words", "source", data, "count", len(words))

	enc, err := newEncoder(*tokenizer, words)
	if err != nil {
		return err
	}

	m, err := newModel(cfg, enc.VocabSize(), *loadPath)
	if err != nil {
		return err
	}
	if m.VocabSize() != enc.VocabSize() {
		return fmt.Errorf("model has %d ids, tokenizer has %d", m.VocabSize(), enc.VocabSize())
	}
	if *loadPath != "" {
		log.Info("loaded model", "path", *loadPath)
	}

	cfg = m.Config()

	train, dev, testWords, err := buildSplits(words, cfg, enc)
	if err != nil {
		return err
	}
	devLen := 0
	if dev != nil {
		devLen = dev.Len()
	} else {
		log.Info("dev split is empty, skipping evaluation")
	}
	log.Info("built dataset", "vocab", enc.VocabSize(), "train", train.Len(), "dev", devLen, "testWords", len(testWords))

	trainer := model.NewTrainer(m, model.WithParallel(parallel.Config{Enabled: *workers > 1, NumWorkers: *workers}))
	history, err := trainer.Fit(ctx, train, dev)
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}
	var lastLoss float64
	if n := len(history.TrainLoss); n > 0 {
		lastLoss = history.TrainLoss[n-1]
		log.Info("training finished", "trainLoss", lastLoss, "devLoss", history.DevLoss)
	}

	if *savePath != "" {
		err := m.Save(*savePath, &serialization.CheckpointMeta{
			Step:            int64(cfg.Steps),
			Loss:            lastLoss,
			OptimizerType:   "SGD",
			OptimizerConfig: map[string]any{"lr": trainer.Optimizer().LR(), "momentum": cfg.Momentum},
		})
		if err != nil {
			return err
		}
		log.Info("saved model", "path", *savePath)
	}

	genCfg := generate.DefaultGenerateConfig()
	genCfg.Sampling.Temperature = *temperature
	genCfg.Sampling.Seed = cfg.Seed
	gen := generate.NewWordGenerator(m, enc, genCfg.Sampling)
	for i := 0; i < *samples; i++ {
		word, err := gen.Generate(ctx, genCfg)
		if err != nil {
			return fmt.Errorf("sampling: %w", err)
		}
		fmt.Println(word)
	}
	return nil
}

// buildSplits shuffles words 80/10/10 and builds the train and dev pairs.
// dev is nil when the dev split has no words.
func buildSplits(words []string, cfg model.Config, enc dataset.Encoder) (train, dev *dataset.Dataset, testWords []string, err error) {
	trainWords, devWords, testWords := dataset.Split(words, cfg.Seed, 0.8, 0.9)
	train, err = dataset.Build(trainWords, cfg.BlockSize, enc, dataset.WithTerminator())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building train split: %w", err)
	}
	if len(devWords) == 0 {
		return train, nil, testWords, nil
	}
	dev, err = dataset.Build(devWords, cfg.BlockSize, enc, dataset.WithTerminator())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building dev split: %w", err)
	}
	return train, dev, testWords, nil
}

// newModel loads path when set, keeping the training flags of cfg, or
// creates a fresh model.
func newModel(cfg model.Config, vocab int, path string) (*model.MLP, error) {
	if path == "" {
		return model.NewMLP(cfg, vocab)
	}
	loaded, _, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	saved := loaded.Config()
	cfg.BlockSize, cfg.EmbeddingDim, cfg.Hidden = saved.BlockSize, saved.EmbeddingDim, saved.Hidden
	m, err := model.NewMLP(cfg, loaded.VocabSize())
	if err != nil {
		return nil, err
	}
	if err := m.LoadStateDict(loaded.StateDict()); err != nil {
		return nil, err
	}
	return m, nil
}

func newEncoder(name string, words []string) (dataset.Encoder, error) {
	if name == "char" {
		return dataset.NewCharEncoder(words), nil
	}
	enc, err := dataset.NewTikTokenEncoder(name, words)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer %q: %w", name, err)
	}
	return enc, nil
}
