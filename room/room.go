// room/room.go
package room

import (
	"github.com/wfunc/blackjack/card"
	"github.com/wfunc/blackjack/logger"
	"github.com/wfunc/blackjack/message"
	"github.com/wfunc/blackjack/models"
	"github.com/wfunc/blackjack/random"
	"github.com/wfunc/blackjack/state"
)

// Timeouts in microseconds.
const (
	JoinTimeout uint64 = 18_000_000
	IdleTimeout uint64 = 10_000_000
)

var transitions = state.NewTable().
	AddTransition(state.StatusIdle, state.StatusWaiting).
	AddTransition(state.StatusWaiting, state.StatusWaiting).
	AddTransition(state.StatusWaiting, state.StatusStarted).
	AddTransition(state.StatusStarted, state.StatusStarted).
	AddTransition(state.StatusStarted, state.StatusWaiting).
	AddTransition(state.StatusStarted, state.StatusFinish).
	AddTransition(state.StatusFinish, state.StatusWaiting)

// Env carries what a step needs from its host: the step time in
// microseconds and the selector owned by the chain.
type Env struct {
	Now      uint64
	Selector *random.Selector
}

// Room is the authoritative record of one game. Player views are derived
// from it, never stored.
type Room struct {
	ID         string           `json:"id"`
	State      state.GameState  `json:"game_state"`
	Players    [2]models.Player `json:"players"`
	Deck       card.Deck        `json:"deck"`
	Hands      [2][]card.Card   `json:"hands"`
	Scores     [2]uint8         `json:"scores"`
	Actions    [2]LastAction    `json:"actions"`
	LastAction LastAction       `json:"last_action"`
	Turn       string           `json:"turn"`
	Winner     string           `json:"winner"`
}

// New 创建一个空闲房间
func New(id string) *Room {
	return &Room{ID: id}
}

// Clone returns a deep copy.
func (r *Room) Clone() *Room {
	c := *r
	c.Deck = r.Deck.Clone()
	for i := range r.Hands {
		if r.Hands[i] != nil {
			c.Hands[i] = append([]card.Card(nil), r.Hands[i]...)
		}
	}
	return &c
}

// Insight returns the snapshot published to the room directory.
func (r *Room) Insight() models.Insight {
	return models.Insight{
		Status:    r.State.Status,
		PlayerOne: r.Players[0],
		PlayerTwo: r.Players[1],
	}
}

// Join seats a player. See the package tests for the full transition list.
func (r *Room) Join(env Env, op message.Join) ([]message.Message, error) {
	return r.step(func(n *Room) ([]message.Message, error) { return n.join(env, op) })
}

// Act applies a Stand or Hit for the player whose turn it is.
func (r *Room) Act(env Env, op message.Action) ([]message.Message, error) {
	return r.step(func(n *Room) ([]message.Message, error) { return n.act(env, op) })
}

// IdleActionCheck lets the waiting player force a stand on an opponent who
// has not acted for IdleTimeout.
func (r *Room) IdleActionCheck(env Env, op message.IdleActionCheck) ([]message.Message, error) {
	return r.step(func(n *Room) ([]message.Message, error) { return n.idleCheck(env, op) })
}

// step runs fn against a copy and keeps the copy only if fn succeeded.
func (r *Room) step(fn func(n *Room) ([]message.Message, error)) ([]message.Message, error) {
	next := r.Clone()
	msgs, err := fn(next)
	if err != nil {
		return nil, err
	}
	*r = *next
	return msgs, nil
}

func (r *Room) machine() *state.Machine {
	return state.NewMachine(transitions, &r.State)
}

func (r *Room) join(env Env, op message.Join) ([]message.Message, error) {
	if op.PlayerID == "" || op.PlayerName == "" {
		return nil, ErrInvalidPlayer
	}
	elapsed := r.State.Elapsed(env.Now)

	switch r.State.Status {
	case state.StatusIdle, state.StatusFinish:
		return r.seatFirst(env, op, false)
	case state.StatusWaiting:
		if elapsed >= JoinTimeout {
			logger.Log.Infow("waiting room is stale, resetting", "room", r.ID, "elapsed_us", elapsed)
			return r.seatFirst(env, op, true)
		}
		return r.seatSecond(env, op)
	case state.StatusStarted:
		if elapsed < JoinTimeout {
			return nil, ErrGameInProgress
		}
		logger.Log.Infow("started room abandoned, resetting", "room", r.ID, "elapsed_us", elapsed)
		return r.seatFirst(env, op, true)
	}
	return nil, ErrGameInProgress
}

// seatFirst resets the room and makes the joiner player one. When abandon is
// set the previous players are released from the busy directory.
func (r *Room) seatFirst(env Env, op message.Join, abandon bool) ([]message.Message, error) {
	var msgs []message.Message
	if abandon {
		release := message.PlayerFinish{}
		if n := r.Players[0].Name; n != op.PlayerName {
			release.P1 = n
		}
		if n := r.Players[1].Name; n != op.PlayerName {
			release.P2 = n
		}
		if release.P1 != "" || release.P2 != "" {
			msgs = append(msgs, release)
		}
	}

	r.reset()
	r.Players[0] = joiner(op)
	if err := r.machine().ChangeState(state.StatusWaiting, env.Now); err != nil {
		return nil, err
	}
	return append(msgs, r.joinMessages(env, op)...), nil
}

func (r *Room) seatSecond(env Env, op message.Join) ([]message.Message, error) {
	p1 := r.Players[0]
	if p1.ID == op.PlayerID || p1.Name == op.PlayerName {
		return nil, ErrDuplicatePlayer
	}
	r.Players[1] = joiner(op)
	if err := r.deal(env); err != nil {
		return nil, err
	}
	if err := r.machine().ChangeState(state.StatusStarted, env.Now); err != nil {
		return nil, err
	}
	logger.Log.Infow("game started", "room", r.ID, "p1", p1.ID, "p2", op.PlayerID)
	return r.joinMessages(env, op), nil
}

func (r *Room) joinMessages(env Env, op message.Join) []message.Message {
	return []message.Message{
		r.roomUpdate(),
		message.Analytic{Version: op.ClientVersion},
		message.PlayerJoin{Name: op.PlayerName, GroupID: op.GroupID, Time: env.Now},
	}
}

func (r *Room) reset() {
	r.Players = [2]models.Player{}
	r.Deck = nil
	r.Hands = [2][]card.Card{}
	r.Scores = [2]uint8{}
	r.Actions = [2]LastAction{}
	r.LastAction = ActionNone
	r.Turn = ""
	r.Winner = ""
}

// deal gives two cards to each player, alternating, player one first.
func (r *Room) deal(env Env) error {
	r.Deck = card.NewDeck()
	for _, tag := range []string{"f", "s"} {
		for seat := range r.Players {
			if err := r.draw(env, seat, tag); err != nil {
				return err
			}
		}
	}
	r.Turn = r.Players[0].ID
	r.Actions = [2]LastAction{}
	r.LastAction = ActionNone
	r.Winner = ""
	return nil
}

func (r *Room) draw(env Env, seat int, tag string) error {
	idx, err := env.Selector.DrawIndex(env.Now, len(r.Deck), r.Players[seat].ID, tag)
	if err != nil {
		return err
	}
	c, err := r.Deck.Take(idx)
	if err != nil {
		return err
	}
	r.Hands[seat] = append(r.Hands[seat], c)
	r.Scores[seat] = card.Score(c, r.Hands[seat], r.Scores[seat])
	return nil
}

func (r *Room) act(env Env, op message.Action) ([]message.Message, error) {
	seat, err := r.turnHolder(op.PlayerID)
	if err != nil {
		return nil, err
	}
	switch op.Action {
	case message.ActionStand:
		return r.stand(env, seat)
	case message.ActionHit:
		return r.hit(env, seat)
	}
	return nil, ErrUnknownAction
}

func (r *Room) turnHolder(playerID string) (int, error) {
	if r.State.Status != state.StatusStarted {
		return 0, ErrNotStarted
	}
	seat, ok := r.seatOf(playerID)
	if !ok {
		return 0, ErrUnknownPlayer
	}
	if r.Turn != playerID {
		return 0, ErrNotYourTurn
	}
	return seat, nil
}

func (r *Room) hit(env Env, seat int) ([]message.Message, error) {
	tag := "P1"
	if seat == 1 {
		tag = "P2"
	}
	other := 1 - seat
	bothBlackjack := r.Scores[seat] == 21 && r.Scores[other] == 21

	if err := r.draw(env, seat, tag); err != nil {
		return nil, err
	}
	r.Actions[seat] = ActionHit
	r.LastAction = ActionHit

	if winner, done := afterHit(seat, r.Scores, bothBlackjack); done {
		return r.finish(env, winner)
	}
	return r.passTurn(env, other)
}

func (r *Room) stand(env Env, seat int) ([]message.Message, error) {
	r.Actions[seat] = ActionStand
	r.LastAction = ActionStand
	if r.Actions[1-seat] == ActionStand {
		return r.finish(env, compare(r.Scores))
	}
	return r.passTurn(env, 1-seat)
}

func (r *Room) idleCheck(env Env, op message.IdleActionCheck) ([]message.Message, error) {
	if r.State.Status != state.StatusStarted {
		return nil, ErrNotStarted
	}
	seat, ok := r.seatOf(op.PlayerID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if r.Turn == op.PlayerID {
		return nil, ErrYourTurn
	}
	if r.State.Elapsed(env.Now) < IdleTimeout {
		return nil, ErrNotIdle
	}

	idle := 1 - seat
	logger.Log.Infow("forcing stand on idle player", "room", r.ID, "idle", r.Players[idle].ID)
	r.Actions[idle] = ActionStand
	r.LastAction = ActionStand
	if r.Actions[seat] == ActionStand {
		return r.finish(env, compare(r.Scores))
	}
	return r.passTurn(env, seat)
}

func (r *Room) passTurn(env Env, seat int) ([]message.Message, error) {
	r.Turn = r.Players[seat].ID
	if err := r.machine().ChangeState(state.StatusStarted, env.Now); err != nil {
		return nil, err
	}
	return nil, nil
}

// finish closes the game. winner is a seat index or -1 for a draw.
func (r *Room) finish(env Env, winner int) ([]message.Message, error) {
	p1, p2 := r.Players[0], r.Players[1]
	result := message.GameResult{
		P1:      p1.Name,
		P2:      p2.Name,
		P1Group: p1.GroupID,
		P2Group: p2.GroupID,
		Time:    env.Now,
	}
	r.Winner = ""
	if winner >= 0 {
		w := r.Players[winner]
		r.Winner = w.ID
		result.Winner = w.Name
		result.WinnerGroup = w.GroupID
	}
	r.Turn = ""
	if err := r.machine().ChangeState(state.StatusFinish, env.Now); err != nil {
		return nil, err
	}
	logger.Log.Infow("game finished", "room", r.ID, "winner", r.Winner,
		"p1_score", r.Scores[0], "p2_score", r.Scores[1])

	return []message.Message{
		result,
		r.roomUpdate(),
		message.PlayerFinish{P1: p1.Name, P2: p2.Name},
	}, nil
}

func (r *Room) roomUpdate() message.RoomUpdate {
	return message.RoomUpdate{RoomID: r.ID, Insight: r.Insight()}
}

func (r *Room) seatOf(playerID string) (int, bool) {
	if playerID == "" {
		return 0, false
	}
	for i, p := range r.Players {
		if p.ID == playerID {
			return i, true
		}
	}
	return 0, false
}

func joiner(op message.Join) models.Player {
	return models.Player{ID: op.PlayerID, Name: op.PlayerName, GroupID: op.GroupID}
}
