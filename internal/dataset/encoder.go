package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownToken is returned when a word contains a symbol outside the
// encoder's vocabulary.
var ErrUnknownToken = errors.New("unknown token")

// Terminator is the padding character. It always has id 0, which is also the
// value context windows start with.
const Terminator = '.'

// TerminatorID is the id of Terminator.
const TerminatorID = 0

// Encoder maps a word to a sequence of token ids in [1, VocabSize).
// Id 0 is reserved for padding.
type Encoder interface {
	Encode(word string) ([]int, error)
	Decode(ids []int) (string, error)
	VocabSize() int
}

// CharEncoder assigns one id per distinct character, sorted, starting at 1.
type CharEncoder struct {
	stoi map[rune]int
	itos []rune
}

var _ Encoder = (*CharEncoder)(nil)

// NewCharEncoder builds the vocabulary of every character in words.
func NewCharEncoder(words []string) *CharEncoder {
	seen := make(map[rune]bool)
	for _, w := range words {
		for _, r := range w {
			if r != Terminator {
				seen[r] = true
			}
		}
	}
	chars := make([]rune, 0, len(seen))
	for r := range seen {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	e := &CharEncoder{
		stoi: make(map[rune]int, len(chars)+1),
		itos: append([]rune{Terminator}, chars...),
	}
	for id, r := range e.itos {
		e.stoi[r] = id
	}
	return e
}

// Encode implements Encoder.
func (e *CharEncoder) Encode(word string) ([]int, error) {
	ids := make([]int, 0, len(word))
	for _, r := range word {
		id, ok := e.stoi[r]
		if !ok {
			return nil, fmt.Errorf("character %q in %q: %w", r, word, ErrUnknownToken)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Decode implements Encoder.
func (e *CharEncoder) Decode(ids []int) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		if id < 0 || id >= len(e.itos) {
			return "", fmt.Errorf("id %d of %d: %w", id, len(e.itos), ErrUnknownToken)
		}
		sb.WriteRune(e.itos[id])
	}
	return sb.String(), nil
}

// VocabSize implements Encoder. It counts the terminator.
func (e *CharEncoder) VocabSize() int {
	return len(e.itos)
}
