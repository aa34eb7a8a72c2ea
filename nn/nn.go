// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers built on the matrix package.
//
// Parameters keep their values as float64 slices. Bind them to a fresh graph
// before each forward pass and copy gradients back with CollectGrads after
// Backward.
package nn

import (
	"math/rand"

	"github.com/born-ml/autograd/internal/autograd"
	"github.com/born-ml/autograd/internal/matrix"
	"github.com/born-ml/autograd/internal/nn"
)

// Parameter is a trainable block of values.
type Parameter = nn.Parameter

// Module is anything that owns parameters.
type Module = nn.Module

// Embedding maps ids to rows of a table.
type Embedding = nn.Embedding

// Linear implements y = x @ W + b.
type Linear = nn.Linear

// NewParameter wraps row-major data as a rows×cols parameter.
func NewParameter(name string, rows, cols int, data []float64) *Parameter {
	return nn.NewParameter(name, rows, cols, data)
}

// NewEmbedding creates an embedding table initialized from N(0, 1).
func NewEmbedding(name string, numEmbeddings, embeddingDim int, rng *rand.Rand) *Embedding {
	return nn.NewEmbedding(name, numEmbeddings, embeddingDim, rng)
}

// NewLinear creates a layer with Xavier weights and zero bias.
func NewLinear(name string, inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	return nn.NewLinear(name, inFeatures, outFeatures, rng)
}

// Bind binds every parameter of modules to g.
func Bind(g *autograd.Graph, modules ...Module) error {
	return nn.Bind(g, modules...)
}

// CollectGrads copies gradients out of the graph for every parameter.
func CollectGrads(modules ...Module) {
	nn.CollectGrads(modules...)
}

// Parameters flattens the parameters of every module.
func Parameters(modules ...Module) []*Parameter {
	return nn.Parameters(modules...)
}

// CrossEntropy returns the mean negative log-likelihood of targets under
// softmax(logits).
func CrossEntropy(logits *matrix.Matrix, targets []int) (autograd.Tensor, error) {
	return nn.CrossEntropy(logits, targets)
}
