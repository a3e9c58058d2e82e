// Package random derives reproducible draw positions from observable inputs.
//
// The seed is built from the step timestamp and player identifiers, so
// anyone who can guess the execution time can predict the draw. Re-executing
// a step with the same inputs always picks the same card, which is what
// replay needs; it is not a fair shuffle.
package random

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
)

const SeedSize = 32

var ErrDeckExhausted = errors.New("not enough cards left to draw")

// Selector owns the seeded generator used for card draws. The zero value is
// ready to use; the generator is created on the first draw and reseeded on
// every draw after that.
type Selector struct {
	src *rand.ChaCha8
}

// NewSelector returns an empty selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Seed builds the 32 byte seed: playerID, tag and the timestamp three times,
// truncated or zero padded to SeedSize.
func Seed(ts uint64, playerID, tag string) [SeedSize]byte {
	stamp := strconv.FormatUint(ts, 10)

	var b strings.Builder
	b.Grow(len(playerID) + len(tag) + 3*len(stamp))
	b.WriteString(playerID)
	b.WriteString(tag)
	for range 3 {
		b.WriteString(stamp)
	}

	var seed [SeedSize]byte
	copy(seed[:], b.String())
	return seed
}

// DrawIndex returns an index in [1, deckLen) derived only from its inputs.
func (s *Selector) DrawIndex(ts uint64, deckLen int, playerID, tag string) (int, error) {
	if deckLen < 2 {
		return 0, ErrDeckExhausted
	}
	s.reseed(Seed(ts, playerID, tag))
	return 1 + rand.New(s.src).IntN(deckLen-1), nil
}

func (s *Selector) reseed(seed [SeedSize]byte) {
	// A fresh source per call: ChaCha8 has no in-place reseed.
	s.src = rand.NewChaCha8(seed)
}
