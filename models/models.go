// models/models.go
package models

import "github.com/wfunc/blackjack/state"

// Player 房间内的玩家身份
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GroupID string `json:"group_id"`
}

// Empty reports whether the seat is free.
func (p Player) Empty() bool {
	return p.ID == "" && p.Name == ""
}

// Insight is the room snapshot carried by room updates.
type Insight struct {
	Status    state.Status `json:"status"`
	PlayerOne Player       `json:"player_one"`
	PlayerTwo Player       `json:"player_two"`
}

// History 对局记录, appended once per finished game.
type History struct {
	P1     string `json:"p1"`
	P2     string `json:"p2"`
	Winner string `json:"winner"`
	Time   uint64 `json:"time"`
}

// PlayRecord holds the cumulative results of one leaderboard subject.
type PlayRecord struct {
	Key  string `json:"key"`
	Win  uint32 `json:"win"`
	Lose uint32 `json:"lose"`
	Play uint32 `json:"play"`
}

// Presence marks a player as busy in a game.
type Presence struct {
	GroupID string `json:"group_id"`
	Time    uint64 `json:"time"`
}

// GameRecord is the audit entry a game chain writes for each finished game.
type GameRecord struct {
	ChainID string `json:"chain_id"`
	P1      string `json:"p1"`
	P2      string `json:"p2"`
	Winner  string `json:"winner"`
	Time    uint64 `json:"time"`
}
