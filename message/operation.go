package message

import "fmt"

// Operation is a request executed on a single chain. The concrete types are
// the only implementations.
type Operation interface {
	operationName() string
}

// AdminOperation is an Operation gated by the leaderboard secret.
type AdminOperation interface {
	Operation
	SecretValue() string
}

// ActionCode selects what a player does on their turn.
type ActionCode uint8

const (
	ActionStand ActionCode = 0
	ActionHit   ActionCode = 1
)

func (a ActionCode) String() string {
	switch a {
	case ActionStand:
		return "stand"
	case ActionHit:
		return "hit"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

type Join struct {
	PlayerID      string `json:"player_id"`
	PlayerName    string `json:"player_name"`
	ClientVersion string `json:"client_version"`
	GroupID       string `json:"group_id"`
}

type Action struct {
	PlayerID string     `json:"player_id"`
	Action   ActionCode `json:"action"`
}

type IdleActionCheck struct {
	PlayerID string `json:"player_id"`
}

type StartLeaderBoard struct {
	Secret string `json:"secret"`
}

type StopLeaderBoard struct {
	Secret string `json:"secret"`
}

type ResetLeaderBoard struct {
	Secret string `json:"secret"`
}

type ResetAnalytics struct {
	Secret string `json:"secret"`
}

func (Join) operationName() string             { return "join" }
func (Action) operationName() string           { return "action" }
func (IdleActionCheck) operationName() string  { return "idle_action_check" }
func (StartLeaderBoard) operationName() string { return "start_leaderboard" }
func (StopLeaderBoard) operationName() string  { return "stop_leaderboard" }
func (ResetLeaderBoard) operationName() string { return "reset_leaderboard" }
func (ResetAnalytics) operationName() string   { return "reset_analytics" }

func (o StartLeaderBoard) SecretValue() string { return o.Secret }
func (o StopLeaderBoard) SecretValue() string  { return o.Secret }
func (o ResetLeaderBoard) SecretValue() string { return o.Secret }
func (o ResetAnalytics) SecretValue() string   { return o.Secret }

// OperationName is the label used in logs and metrics.
func OperationName(op Operation) string {
	if op == nil {
		return "nil"
	}
	return op.operationName()
}
