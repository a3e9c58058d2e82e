package card

import (
	"errors"
	"fmt"
)

var ErrOutOfRange = errors.New("card index out of range")

// Deck holds the cards not drawn yet in the current game.
type Deck []Card

// NewDeck returns the full 52 card domain in ascending order.
func NewDeck() Deck {
	d := make(Deck, DeckSize)
	for i := range d {
		d[i] = Card(i + 1)
	}
	return d
}

// Take removes and returns the card at index i. The last card is moved into
// the freed slot, so the order of the remaining cards changes.
func (d *Deck) Take(i int) (Card, error) {
	cards := *d
	if i < 0 || i >= len(cards) {
		return Hidden, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(cards))
	}
	c := cards[i]
	last := len(cards) - 1
	cards[i] = cards[last]
	*d = cards[:last]
	return c, nil
}

// Clone returns an independent copy.
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	return append(Deck(nil), d...)
}
