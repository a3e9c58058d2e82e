// card/card.go
package card

import (
	"math"
	"strconv"
)

// Card is a value in [1, 52]. Each suit holds 13 consecutive values starting
// with its Ace: Spades 1-13, Hearts 14-26, Diamonds 27-39, Clubs 40-52.
// Hidden is used in views for a card the viewer may not see yet.
type Card uint8

const (
	Hidden   Card = 0
	DeckSize      = 52
	perSuit       = 13
)

// Suit 花色
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

func (s Suit) String() string {
	switch s {
	case Spades:
		return "spades"
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	}
	return "unknown"
}

// Valid reports whether c is inside the 52 card domain.
func (c Card) Valid() bool {
	return c >= 1 && c <= DeckSize
}

// MarshalJSON writes the plain number so card lists encode as arrays
// rather than base64.
func (c Card) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(c), 10), nil
}

// Suit returns the suit of a valid card.
func (c Card) Suit() Suit {
	return Suit((int(c) - 1) / perSuit)
}

// Rank returns 1 (Ace) through 13 (King).
func (c Card) Rank() int {
	return (int(c)-1)%perSuit + 1
}

// IsAce reports whether c is one of 1, 14, 27 or 40.
func (c Card) IsAce() bool {
	return c.Valid() && c.Rank() == 1
}

// Value returns the fixed point value of a card: 0 for an Ace (resolved by
// Score), 10 for ten and face cards, otherwise the pip value.
func Value(c Card) uint8 {
	if !c.Valid() {
		return 0
	}
	switch r := c.Rank(); {
	case r == 1:
		return 0
	case r >= 10:
		return 10
	default:
		return uint8(r)
	}
}

// Score returns the new hand total after chosen was drawn. hand is the
// player's full card list and already contains chosen; running is the total
// before the draw.
func Score(chosen Card, hand []Card, running uint8) uint8 {
	aces := countAces(hand)
	chosenAce := chosen.IsAce()
	if chosenAce {
		aces--
	}

	switch {
	case aces <= 0 && !chosenAce:
		return satAdd(running, Value(chosen))
	case aces <= 0 && chosenAce:
		if s := satAdd(running, 11); s <= 21 {
			return s
		}
		return satAdd(running, 1)
	}

	if chosenAce {
		aces++
	}
	var total uint8
	for _, c := range hand {
		if !c.IsAce() {
			total = satAdd(total, Value(c))
		}
	}
	return withAces(total, aces)
}

// HandScore folds Score over a card sequence in draw order. Hidden cards are
// skipped, so the result is the score of what the viewer can see.
func HandScore(cards []Card) uint8 {
	var (
		score uint8
		seen  = make([]Card, 0, len(cards))
	)
	for _, c := range cards {
		if c == Hidden {
			continue
		}
		seen = append(seen, c)
		score = Score(c, seen, score)
	}
	return score
}

// withAces values one Ace as 11 and the rest as 1, falling back to all Aces
// as 1 when that would bust. At most four Aces exist in a deck.
func withAces(total uint8, aces int) uint8 {
	if aces < 1 || aces > 4 {
		return total
	}
	n := uint8(aces)
	if s := satAdd(total, 10+n); s <= 21 {
		return s
	}
	return satAdd(total, n)
}

func countAces(hand []Card) int {
	n := 0
	for _, c := range hand {
		if c.IsAce() {
			n++
		}
	}
	return n
}

func satAdd(a, b uint8) uint8 {
	if a > math.MaxUint8-b {
		return math.MaxUint8
	}
	return a + b
}
