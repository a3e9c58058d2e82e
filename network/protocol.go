package network

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wfunc/blackjack/message"
)

const (
	MsgTypeHeartbeat = 1

	// client -> server
	MsgTypeJoin      = 101
	MsgTypeAction    = 102
	MsgTypeIdleCheck = 103
	MsgTypeAdmin     = 110
	MsgTypeWatch     = 120

	// server -> client
	MsgTypeResult   = 301
	MsgTypePlayData = 302
)

var ErrUnknownMsgType = errors.New("unknown message type")

// Result answers every client request.
type Result struct {
	MsgID uint16 `json:"msg_id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// AdminRequest carries one admin operation by name.
type AdminRequest struct {
	Op     string `json:"op"`
	Secret string `json:"secret"`
}

// WatchRequest subscribes a session to the view of a player, or to the
// spectator view when PlayerID is empty.
type WatchRequest struct {
	PlayerID string `json:"player_id"`
}

// Admin operation names.
const (
	AdminStartLeaderBoard = "start_leaderboard"
	AdminStopLeaderBoard  = "stop_leaderboard"
	AdminResetLeaderBoard = "reset_leaderboard"
	AdminResetAnalytics   = "reset_analytics"
)

// DecodeOperation turns a client packet into an operation.
func DecodeOperation(p *Packet) (message.Operation, error) {
	switch p.MsgID {
	case MsgTypeJoin:
		var op message.Join
		if err := json.Unmarshal(p.Data, &op); err != nil {
			return nil, err
		}
		return op, nil
	case MsgTypeAction:
		var op message.Action
		if err := json.Unmarshal(p.Data, &op); err != nil {
			return nil, err
		}
		return op, nil
	case MsgTypeIdleCheck:
		var op message.IdleActionCheck
		if err := json.Unmarshal(p.Data, &op); err != nil {
			return nil, err
		}
		return op, nil
	case MsgTypeAdmin:
		var req AdminRequest
		if err := json.Unmarshal(p.Data, &req); err != nil {
			return nil, err
		}
		return AdminOperation(req)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMsgType, p.MsgID)
}

func AdminOperation(req AdminRequest) (message.Operation, error) {
	switch req.Op {
	case AdminStartLeaderBoard:
		return message.StartLeaderBoard{Secret: req.Secret}, nil
	case AdminStopLeaderBoard:
		return message.StopLeaderBoard{Secret: req.Secret}, nil
	case AdminResetLeaderBoard:
		return message.ResetLeaderBoard{Secret: req.Secret}, nil
	case AdminResetAnalytics:
		return message.ResetAnalytics{Secret: req.Secret}, nil
	}
	return nil, fmt.Errorf("unknown admin operation %q", req.Op)
}
