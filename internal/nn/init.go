package nn

import (
	"math"
	"math/rand"
)

// Randn returns n samples of N(0, scale²).
func Randn(rng *rand.Rand, n int, scale float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64() * scale
	}
	return out
}

// Xavier returns fanIn*fanOut samples from the Glorot uniform distribution.
func Xavier(rng *rand.Rand, fanIn, fanOut int) []float64 {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	out := make([]float64, fanIn*fanOut)
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * limit
	}
	return out
}

// Zeros returns n zeros.
func Zeros(n int) []float64 {
	return make([]float64, n)
}
