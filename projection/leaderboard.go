package projection

import (
	"math"
	"sort"

	"github.com/wfunc/blackjack/models"
)

// Leaderboard accumulates win/lose/play counters per subject. A subject is a
// player name or a group id.
type Leaderboard struct {
	Players map[string]models.PlayRecord `json:"players"`
	Count   uint32                       `json:"count"`
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{Players: make(map[string]models.PlayRecord)}
}

// UpdatePlayer records one game for subject. An empty winner is a draw;
// otherwise subject wins when it equals winner and loses when it does not.
func (l *Leaderboard) UpdatePlayer(subject, winner string) {
	if subject == "" {
		return
	}
	if l.Players == nil {
		l.Players = make(map[string]models.PlayRecord)
	}
	rec := l.Players[subject]
	rec.Key = subject
	rec.Play = inc(rec.Play)
	switch {
	case winner == "":
	case winner == subject:
		rec.Win = inc(rec.Win)
	default:
		rec.Lose = inc(rec.Lose)
	}
	l.Players[subject] = rec
}

// CountGame bumps the game counter.
func (l *Leaderboard) CountGame() {
	l.Count = inc(l.Count)
}

// Ranked returns all records ordered by win descending, then lose ascending.
// Equal records are ordered by key so listings are reproducible.
func (l *Leaderboard) Ranked() []models.PlayRecord {
	out := make([]models.PlayRecord, 0, len(l.Players))
	for _, rec := range l.Players {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Win != b.Win {
			return a.Win > b.Win
		}
		if a.Lose != b.Lose {
			return a.Lose < b.Lose
		}
		return a.Key < b.Key
	})
	return out
}

func (l *Leaderboard) Reset() {
	l.Players = make(map[string]models.PlayRecord)
	l.Count = 0
}

func (l *Leaderboard) Clone() *Leaderboard {
	c := &Leaderboard{Players: make(map[string]models.PlayRecord, len(l.Players)), Count: l.Count}
	for k, v := range l.Players {
		c.Players[k] = v
	}
	return c
}

func inc(v uint32) uint32 {
	if v == math.MaxUint32 {
		return v
	}
	return v + 1
}
