package room

import (
	"github.com/wfunc/blackjack/card"
	"github.com/wfunc/blackjack/state"
)

// PlayData is one player's view of the room. Both views of a game come from
// the same Room record, so they always mirror each other.
type PlayData struct {
	MyCard        []card.Card  `json:"my_card"`
	OpponentCard  []card.Card  `json:"opponent_card"`
	MyScore       uint8        `json:"my_score"`
	OpponentScore uint8        `json:"opponent_score"`
	PlayerIDTurn  string       `json:"player_id_turn"`
	LastAction    LastAction   `json:"last_action"`
	Winner        string       `json:"winner"`
	GameState     state.Status `json:"game_state"`
	LastUpdate    uint64       `json:"last_update"`
}

// PlayData returns the view of a seated player. While the game runs the
// opponent's first card stays hidden and the opponent score only counts
// visible cards.
func (r *Room) PlayData(playerID string) (PlayData, bool) {
	seat, ok := r.seatOf(playerID)
	if !ok {
		return PlayData{}, false
	}
	return r.view(seat, false), true
}

// SpectatorView shows the game from player one's seat with both first cards
// hidden until the game is over.
func (r *Room) SpectatorView() PlayData {
	return r.view(0, true)
}

func (r *Room) view(seat int, spectator bool) PlayData {
	other := 1 - seat
	hide := r.State.Status == state.StatusStarted

	pd := PlayData{
		MyCard:        cloneCards(r.Hands[seat]),
		OpponentCard:  cloneCards(r.Hands[other]),
		MyScore:       r.Scores[seat],
		OpponentScore: r.Scores[other],
		PlayerIDTurn:  r.Turn,
		LastAction:    r.LastAction,
		Winner:        r.Winner,
		GameState:     r.State.Status,
		LastUpdate:    r.State.LastUpdate,
	}
	if hide {
		pd.OpponentCard = holeCard(pd.OpponentCard)
		pd.OpponentScore = card.HandScore(pd.OpponentCard)
		if spectator {
			pd.MyCard = holeCard(pd.MyCard)
			pd.MyScore = card.HandScore(pd.MyCard)
		}
	}
	return pd
}

func holeCard(cards []card.Card) []card.Card {
	if len(cards) > 0 {
		cards[0] = card.Hidden
	}
	return cards
}

func cloneCards(cards []card.Card) []card.Card {
	out := make([]card.Card, len(cards))
	copy(out, cards)
	return out
}
