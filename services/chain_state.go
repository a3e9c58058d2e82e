package services

import (
	"github.com/wfunc/blackjack/projection"
	"github.com/wfunc/blackjack/room"
)

// ChainState is the persisted state of one chain. Only the part that
// belongs to the chain's role is set.
type ChainState struct {
	Room         *room.Room                 `json:"room,omitempty"`
	Board        *projection.Board          `json:"board,omitempty"`
	RoomStatus   projection.RoomDirectory   `json:"room_status,omitempty"`
	Analytics    projection.Analytics       `json:"analytics,omitempty"`
	PlayerStatus projection.PlayerDirectory `json:"player_status,omitempty"`
}

// ensure fills in whatever the role needs and a fresh or decoded state
// lacks.
func (s *ChainState) ensure(role Role, chainID string) {
	switch role {
	case RoleGame:
		if s.Room == nil {
			s.Room = room.New(chainID)
		}
	case RoleLeaderboard:
		if s.Board == nil {
			s.Board = projection.NewBoard()
		}
		if s.Board.ByName == nil {
			s.Board.ByName = projection.NewLeaderboard()
		}
		if s.Board.ByGroup == nil {
			s.Board.ByGroup = projection.NewLeaderboard()
		}
	case RoleRoomStatus:
		if s.RoomStatus == nil {
			s.RoomStatus = projection.RoomDirectory{}
		}
	case RoleAnalytics:
		if s.Analytics == nil {
			s.Analytics = projection.Analytics{}
		}
	case RolePlayerStatus:
		if s.PlayerStatus == nil {
			s.PlayerStatus = projection.PlayerDirectory{}
		}
	}
}

func (s *ChainState) clone() *ChainState {
	c := &ChainState{}
	if s.Room != nil {
		c.Room = s.Room.Clone()
	}
	if s.Board != nil {
		c.Board = s.Board.Clone()
	}
	if s.RoomStatus != nil {
		c.RoomStatus = s.RoomStatus.Clone()
	}
	if s.Analytics != nil {
		c.Analytics = s.Analytics.Clone()
	}
	if s.PlayerStatus != nil {
		c.PlayerStatus = s.PlayerStatus.Clone()
	}
	return c
}
