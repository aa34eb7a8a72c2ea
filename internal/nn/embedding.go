package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/autograd/internal/matrix"
)

// Embedding maps token ids to rows of a [NumEmbed, EmbedDim] table.
//
// Forward gathers rows by reference, so Backward scatter-adds into exactly
// the rows that were looked up.
type Embedding struct {
	Weight   *Parameter
	NumEmbed int
	EmbedDim int
}

// NewEmbedding creates a table initialized from N(0, 1).
func NewEmbedding(name string, numEmbeddings, embeddingDim int, rng *rand.Rand) *Embedding {
	return &Embedding{
		Weight:   NewParameter(name+".weight", numEmbeddings, embeddingDim, Randn(rng, numEmbeddings*embeddingDim, 1)),
		NumEmbed: numEmbeddings,
		EmbedDim: embeddingDim,
	}
}

// Forward looks up indices [batch][context] and flattens the result to
// [batch, context*EmbedDim].
func (e *Embedding) Forward(indices [][]int) (*matrix.Matrix, error) {
	gathered, err := e.Weight.Matrix().Gather(indices)
	if err != nil {
		return nil, fmt.Errorf("embedding lookup: %w", err)
	}
	return gathered.View(len(indices), -1)
}

// Share returns an embedding over the same table. See Parameter.Share.
func (e *Embedding) Share() *Embedding {
	return &Embedding{Weight: e.Weight.Share(), NumEmbed: e.NumEmbed, EmbedDim: e.EmbedDim}
}

// Parameters implements Module.
func (e *Embedding) Parameters() []*Parameter {
	return []*Parameter{e.Weight}
}
