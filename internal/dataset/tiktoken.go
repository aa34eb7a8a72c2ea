package dataset

import (
	"fmt"
	"sort"

	"github.com/pkoukk/tiktoken-go"
)

// TikTokenEncoder splits words with an OpenAI BPE encoding and remaps the
// token ids that occur in the corpus to a dense range starting at 1, so the
// embedding table only holds rows for tokens that are actually used.
type TikTokenEncoder struct {
	encoding *tiktoken.Tiktoken
	name     string
	dense    map[int]int
	sparse   []int // sparse[0] is the padding slot
}

var _ Encoder = (*TikTokenEncoder)(nil)

// NewTikTokenEncoder loads encodingName (e.g. "cl100k_base") and builds the
// dense vocabulary from words.
func NewTikTokenEncoder(encodingName string, words []string) (*TikTokenEncoder, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	seen := make(map[int]bool)
	for _, w := range words {
		for _, tok := range encoding.Encode(w, nil, nil) {
			seen[tok] = true
		}
	}
	tokens := make([]int, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Ints(tokens)

	e := &TikTokenEncoder{
		encoding: encoding,
		name:     encodingName,
		dense:    make(map[int]int, len(tokens)),
		sparse:   append([]int{-1}, tokens...),
	}
	for id, tok := range e.sparse[1:] {
		e.dense[tok] = id + 1
	}
	return e, nil
}

// Name returns the encoding name.
func (e *TikTokenEncoder) Name() string {
	return e.name
}

// Encode implements Encoder.
func (e *TikTokenEncoder) Encode(word string) ([]int, error) {
	tokens := e.encoding.Encode(word, nil, nil)
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		id, ok := e.dense[tok]
		if !ok {
			return nil, fmt.Errorf("token %d in %q: %w", tok, word, ErrUnknownToken)
		}
		ids[i] = id
	}
	return ids, nil
}

// Decode implements Encoder. Padding ids are skipped.
func (e *TikTokenEncoder) Decode(ids []int) (string, error) {
	tokens := make([]int, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if id < 0 || id >= len(e.sparse) {
			return "", fmt.Errorf("id %d of %d: %w", id, len(e.sparse), ErrUnknownToken)
		}
		tokens = append(tokens, e.sparse[id])
	}
	return e.encoding.Decode(tokens), nil
}

// VocabSize implements Encoder. It counts the padding slot.
func (e *TikTokenEncoder) VocabSize() int {
	return len(e.sparse)
}
