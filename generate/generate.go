// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package generate samples words from a trained next-token model.
package generate

import "github.com/born-ml/autograd/internal/generate"

// SamplingConfig configures how the next id is drawn from logits.
type SamplingConfig = generate.SamplingConfig

// GenerateConfig configures word generation.
//
//nolint:revive // GenerateConfig is clearer than Config
type GenerateConfig = generate.GenerateConfig

// GenerateResult is a single result from streaming generation.
//
//nolint:revive // GenerateResult is clearer than Result
type GenerateResult = generate.GenerateResult

// Model predicts the next id from a fixed-size context window.
type Model = generate.Model

// Decoder maps ids back to text.
type Decoder = generate.Decoder

// Sampler draws ids from logits.
type Sampler = generate.Sampler

// WordGenerator samples whole words from a Model.
type WordGenerator = generate.WordGenerator

// DefaultSamplingConfig returns plain multinomial sampling.
func DefaultSamplingConfig() SamplingConfig {
	return generate.DefaultSamplingConfig()
}

// DefaultGenerateConfig returns sensible defaults for generation.
func DefaultGenerateConfig() GenerateConfig {
	return generate.DefaultGenerateConfig()
}

// NewSampler creates a sampler.
func NewSampler(config SamplingConfig) *Sampler {
	return generate.NewSampler(config)
}

// NewWordGenerator creates a generator.
func NewWordGenerator(model Model, decoder Decoder, config SamplingConfig) *WordGenerator {
	return generate.NewWordGenerator(model, decoder, config)
}
