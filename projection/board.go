package projection

import (
	"github.com/wfunc/blackjack/message"
	"github.com/wfunc/blackjack/models"
)

// Board is the state of the leaderboard chain.
type Board struct {
	On      bool             `json:"on"`
	ByName  *Leaderboard     `json:"by_name"`
	ByGroup *Leaderboard     `json:"by_group"`
	History []models.History `json:"history"`
}

// NewBoard returns an empty board that accepts results.
func NewBoard() *Board {
	return &Board{On: true, ByName: NewLeaderboard(), ByGroup: NewLeaderboard()}
}

// ApplyResult merges one finished game. While the board is switched off the
// leaderboards stay untouched but the game is still written to history.
func (b *Board) ApplyResult(r message.GameResult) {
	if b.On {
		b.ByName.UpdatePlayer(r.P1, r.Winner)
		b.ByName.UpdatePlayer(r.P2, r.Winner)
		b.ByName.CountGame()

		b.ByGroup.UpdatePlayer(r.P1Group, r.WinnerGroup)
		if r.P2Group != r.P1Group {
			b.ByGroup.UpdatePlayer(r.P2Group, r.WinnerGroup)
		}
		b.ByGroup.CountGame()
	}
	b.History = append(b.History, models.History{P1: r.P1, P2: r.P2, Winner: r.Winner, Time: r.Time})
}

// HistoryTail returns up to limit entries, newest first. A limit of zero or
// less returns everything.
func (b *Board) HistoryTail(limit int) []models.History {
	n := len(b.History)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.History, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, b.History[i])
	}
	return out
}

// Reset clears both leaderboards, their counters and the history.
func (b *Board) Reset() {
	b.ByName.Reset()
	b.ByGroup.Reset()
	b.History = nil
}

func (b *Board) Clone() *Board {
	return &Board{
		On:      b.On,
		ByName:  b.ByName.Clone(),
		ByGroup: b.ByGroup.Clone(),
		History: append([]models.History(nil), b.History...),
	}
}
