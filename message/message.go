package message

import (
	"github.com/google/uuid"
	"github.com/wfunc/blackjack/models"
)

// Kind identifies a cross-chain message type.
type Kind string

const (
	KindGameResult   Kind = "game_result"
	KindRoomUpdate   Kind = "room_update"
	KindAnalytic     Kind = "analytic"
	KindPlayerJoin   Kind = "player_join"
	KindPlayerFinish Kind = "player_finish"
)

// Message is a one-way notification sent from a game chain to one of the
// projection chains.
type Message interface {
	Kind() Kind
}

// GameResult is sent once per finished game. Empty Winner means a draw.
type GameResult struct {
	P1          string `json:"p1"`
	P2          string `json:"p2"`
	P1Group     string `json:"p1_group"`
	P2Group     string `json:"p2_group"`
	Winner      string `json:"winner"`
	WinnerGroup string `json:"winner_group"`
	Time        uint64 `json:"time"`
}

// RoomUpdate carries the full room snapshot after a status change.
type RoomUpdate struct {
	RoomID  string         `json:"room_id"`
	Insight models.Insight `json:"insight"`
}

// Analytic counts one join for a client version.
type Analytic struct {
	Version string `json:"version"`
}

// PlayerJoin marks a player as busy.
type PlayerJoin struct {
	Name    string `json:"name"`
	GroupID string `json:"group_id"`
	Time    uint64 `json:"time"`
}

// PlayerFinish releases both players of a game.
type PlayerFinish struct {
	P1 string `json:"p1"`
	P2 string `json:"p2"`
}

func (GameResult) Kind() Kind   { return KindGameResult }
func (RoomUpdate) Kind() Kind   { return KindRoomUpdate }
func (Analytic) Kind() Kind     { return KindAnalytic }
func (PlayerJoin) Kind() Kind   { return KindPlayerJoin }
func (PlayerFinish) Kind() Kind { return KindPlayerFinish }

// Envelope is one delivery of a message between chains. A bounced envelope
// is the original message handed back to its sender after the destination
// refused it.
type Envelope struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	Bounced     bool    `json:"bounced"`
	Message     Message `json:"-"`
}

// NewEnvelope addresses msg from source to destination.
func NewEnvelope(source, destination string, msg Message) Envelope {
	return Envelope{
		ID:          uuid.New().String(),
		Source:      source,
		Destination: destination,
		Message:     msg,
	}
}

// Bounce returns the envelope addressed back to its sender.
func (e Envelope) Bounce() Envelope {
	e.Bounced = true
	e.Source, e.Destination = e.Destination, e.Source
	return e
}
