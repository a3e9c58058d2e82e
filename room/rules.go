package room

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidPlayer   = errors.New("player id and name are required")
	ErrDuplicatePlayer = errors.New("player already seated in this room")
	ErrGameInProgress  = errors.New("blackjack have started")
	ErrNotStarted      = errors.New("game not started yet")
	ErrUnknownPlayer   = errors.New("player not in this room")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrYourTurn        = errors.New("idle check is for the waiting player")
	ErrNotIdle         = errors.New("opponent has not been idle long enough")
	ErrUnknownAction   = errors.New("action not recognized")
)

// LastAction is the most recent move of a player.
type LastAction int

const (
	ActionNone LastAction = iota
	ActionStand
	ActionHit
)

var actionNames = [...]string{"None", "Stand", "Hit"}

func (a LastAction) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("LastAction(%d)", int(a))
	}
	return actionNames[a]
}

func (a LastAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *LastAction) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range actionNames {
		if n == name {
			*a = LastAction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown last action %q", name)
}

const noWinner = -1

// afterHit decides a game right after seat drew a card. bothBlackjack tells
// whether both players held 21 before the draw.
func afterHit(seat int, scores [2]uint8, bothBlackjack bool) (winner int, done bool) {
	other := 1 - seat
	mine, theirs := scores[seat], scores[other]
	switch {
	case bothBlackjack, mine == 21 && theirs == 21:
		return noWinner, true
	case mine == 21:
		return seat, true
	case theirs == 21:
		return other, true
	case theirs > 21:
		return seat, true
	case mine > 21:
		return other, true
	}
	return 0, false
}

// compare settles a closed round: the higher score not over 21 wins, equal
// scores draw, and two busted hands draw as well.
func compare(scores [2]uint8) int {
	a, b := scores[0], scores[1]
	switch {
	case a > 21 && b > 21:
		return noWinner
	case a > 21:
		return 1
	case b > 21:
		return 0
	case a > b:
		return 0
	case b > a:
		return 1
	}
	return noWinner
}
