package services

import (
	"github.com/wfunc/blackjack/config"
	"github.com/wfunc/blackjack/message"
)

// Role is what a chain does. Every chain that is not one of the four
// projection chains runs a game room.
type Role string

const (
	RoleGame         Role = "game"
	RoleLeaderboard  Role = "leaderboard"
	RoleRoomStatus   Role = "room_status"
	RoleAnalytics    Role = "analytics"
	RolePlayerStatus Role = "player_status"
)

// Chains holds the ids of the projection chains.
type Chains struct {
	Leaderboard  string
	RoomStatus   string
	Analytics    string
	PlayerStatus string
}

func ChainsFromConfig(c config.ChainsConfig) Chains {
	return Chains{
		Leaderboard:  c.Leaderboard,
		RoomStatus:   c.RoomStatus,
		Analytics:    c.Analytics,
		PlayerStatus: c.PlayerStatus,
	}
}

// RoleOf returns the role of chainID.
func (c Chains) RoleOf(chainID string) Role {
	switch chainID {
	case c.Leaderboard:
		return RoleLeaderboard
	case c.RoomStatus:
		return RoleRoomStatus
	case c.Analytics:
		return RoleAnalytics
	case c.PlayerStatus:
		return RolePlayerStatus
	}
	return RoleGame
}

// Destination returns the chain that consumes messages of kind.
func (c Chains) Destination(kind message.Kind) string {
	switch kind {
	case message.KindGameResult:
		return c.Leaderboard
	case message.KindRoomUpdate:
		return c.RoomStatus
	case message.KindAnalytic:
		return c.Analytics
	case message.KindPlayerJoin, message.KindPlayerFinish:
		return c.PlayerStatus
	}
	return ""
}

// owner returns the role allowed to run an admin operation.
func owner(op message.AdminOperation) Role {
	switch op.(type) {
	case message.StartLeaderBoard, message.StopLeaderBoard, message.ResetLeaderBoard:
		return RoleLeaderboard
	case message.ResetAnalytics:
		return RoleAnalytics
	}
	return ""
}
