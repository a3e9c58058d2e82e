package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	cases := map[Card]uint8{
		1: 0, 14: 0, 27: 0, 40: 0,
		2: 2, 15: 2, 28: 2, 41: 2,
		9: 9, 22: 9, 35: 9, 48: 9,
		10: 10, 11: 10, 12: 10, 13: 10,
		23: 10, 26: 10, 36: 10, 39: 10, 49: 10, 52: 10,
		0: 0, 53: 0,
	}
	for c, want := range cases {
		assert.Equal(t, want, Value(c), "card %d", c)
	}
}

func TestSuitAndRank(t *testing.T) {
	assert.Equal(t, Spades, Card(1).Suit())
	assert.Equal(t, Hearts, Card(14).Suit())
	assert.Equal(t, Diamonds, Card(39).Suit())
	assert.Equal(t, Clubs, Card(52).Suit())
	assert.Equal(t, 13, Card(52).Rank())
	assert.True(t, Card(40).IsAce())
	assert.False(t, Card(41).IsAce())
	assert.False(t, Hidden.IsAce())
}

// scoreSequence plays cards one by one the way a room does.
func scoreSequence(cards ...Card) uint8 {
	var (
		hand  []Card
		score uint8
	)
	for _, c := range cards {
		hand = append(hand, c)
		score = Score(c, hand, score)
	}
	return score
}

func TestScoreWithoutAces(t *testing.T) {
	hands := [][]Card{
		{2, 3},
		{10, 25, 5},
		{13, 12, 11},
		{9, 22, 35, 48},
	}
	for _, h := range hands {
		var want uint8
		for _, c := range h {
			want += Value(c)
		}
		assert.Equal(t, want, scoreSequence(h...), "hand %v", h)

		reversed := make([]Card, len(h))
		for i, c := range h {
			reversed[len(h)-1-i] = c
		}
		assert.Equal(t, want, scoreSequence(reversed...), "reversed hand %v", reversed)
	}
}

func TestScoreSingleAce(t *testing.T) {
	// T + 11 when it fits.
	assert.Equal(t, uint8(21), scoreSequence(1, 13))
	assert.Equal(t, uint8(21), scoreSequence(13, 1))
	assert.Equal(t, uint8(16), scoreSequence(5, 14))
	// T + 1 otherwise.
	assert.Equal(t, uint8(16), scoreSequence(9, 6, 27))
	// Ace first, later cards demote it.
	assert.Equal(t, uint8(18), scoreSequence(40, 9, 8))
}

func TestScoreTwoAces(t *testing.T) {
	assert.Equal(t, uint8(12), scoreSequence(1, 14))
	assert.Equal(t, uint8(21), scoreSequence(1, 14, 9))
	assert.Equal(t, uint8(12), scoreSequence(1, 14, 12))
	assert.Equal(t, uint8(19), scoreSequence(10, 5, 27, 40, 2))
}

func TestScoreThreeAndFourAces(t *testing.T) {
	assert.Equal(t, uint8(13), scoreSequence(1, 14, 27))
	assert.Equal(t, uint8(14), scoreSequence(1, 14, 27, 40))
	assert.Equal(t, uint8(21), scoreSequence(1, 14, 27, 40, 7))
	assert.Equal(t, uint8(14), scoreSequence(1, 14, 27, 40, 10))
}

func TestScoreSaturates(t *testing.T) {
	assert.Equal(t, uint8(255), Score(10, []Card{10}, 250))
	assert.Equal(t, uint8(255), satAdd(250, 10))
	assert.Equal(t, uint8(252), withAces(250, 2))
}

func TestHandScoreSkipsHidden(t *testing.T) {
	assert.Equal(t, scoreSequence(1, 13), HandScore([]Card{1, 13}))
	assert.Equal(t, uint8(10), HandScore([]Card{Hidden, 13}))
	assert.Equal(t, uint8(0), HandScore(nil))
}

func TestDeckTake(t *testing.T) {
	d := NewDeck()
	require.Len(t, d, DeckSize)

	c, err := d.Take(0)
	require.NoError(t, err)
	assert.Equal(t, Card(1), c)
	assert.Len(t, d, DeckSize-1)
	assert.Equal(t, Card(52), d[0])

	_, err = d.Take(len(d))
	assert.ErrorIs(t, err, ErrOutOfRange)

	seen := map[Card]bool{c: true}
	for len(d) > 0 {
		c, err := d.Take(len(d) / 2)
		require.NoError(t, err)
		require.False(t, seen[c], "card %d drawn twice", c)
		seen[c] = true
	}
	assert.Len(t, seen, DeckSize)
}

func TestDeckCloneIsIndependent(t *testing.T) {
	d := NewDeck()
	c := d.Clone()
	_, err := c.Take(3)
	require.NoError(t, err)
	assert.Len(t, d, DeckSize)
	assert.Len(t, c, DeckSize-1)
}

func TestCardsEncodeAsNumbers(t *testing.T) {
	data, err := json.Marshal(Deck{1, 14, 52})
	require.NoError(t, err)
	assert.JSONEq(t, `[1,14,52]`, string(data))

	var back []Card
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []Card{1, 14, 52}, back)
}
