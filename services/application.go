package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/coder/quartz"

	"github.com/wfunc/blackjack/logger"
	"github.com/wfunc/blackjack/message"
	"github.com/wfunc/blackjack/models"
	"github.com/wfunc/blackjack/monitor"
	"github.com/wfunc/blackjack/persistence"
	"github.com/wfunc/blackjack/projection"
	"github.com/wfunc/blackjack/random"
	"github.com/wfunc/blackjack/room"
)

var (
	ErrRoleNotAllowed    = errors.New("operation not allowed on this chain")
	ErrWrongChain        = errors.New("operation belongs to another chain")
	ErrUnauthorized      = errors.New("leaderboard secret mismatch")
	ErrUnexpectedMessage = errors.New("message not accepted by this chain")
	ErrUnknownOperation  = errors.New("unknown operation")
)

// Sender hands envelopes to the cross-chain transport.
type Sender interface {
	Send(ctx context.Context, env message.Envelope)
}

type Options struct {
	ChainID string
	Chains  Chains
	Secret  string
	Clock   quartz.Clock
	Store   persistence.Database
	Sender  Sender
	Monitor *monitor.Monitor
}

// Application runs one chain. It executes at most one operation or message
// at a time; a step works on a copy of the state which replaces the live
// state only once the step succeeded and was saved.
type Application struct {
	mutex    sync.Mutex
	id       string
	role     Role
	chains   Chains
	secret   string
	clock    quartz.Clock
	selector *random.Selector
	store    persistence.Database
	sender   Sender
	monitor  *monitor.Monitor
	state    *ChainState
}

func NewApplication(opts Options) *Application {
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	a := &Application{
		id:      opts.ChainID,
		role:    opts.Chains.RoleOf(opts.ChainID),
		chains:  opts.Chains,
		secret:  opts.Secret,
		clock:   clock,
		store:   opts.Store,
		sender:  opts.Sender,
		monitor: opts.Monitor,
		state:   &ChainState{},
	}
	a.state.ensure(a.role, a.id)
	return a
}

func (a *Application) ChainID() string { return a.id }
func (a *Application) Role() Role      { return a.role }

// Load restores the saved state. A chain that was never saved keeps its
// fresh state.
func (a *Application) Load(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	var s ChainState
	err := a.store.LoadChainState(ctx, a.id, &s)
	if errors.Is(err, persistence.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load chain %s: %w", a.id, err)
	}
	s.ensure(a.role, a.id)

	a.mutex.Lock()
	a.state = &s
	a.mutex.Unlock()
	return nil
}

// Execute runs op on this chain and sends the resulting messages.
func (a *Application) Execute(ctx context.Context, op message.Operation) error {
	start := a.clock.Now()
	name := message.OperationName(op)

	a.mutex.Lock()
	msgs, err := a.execute(ctx, op)
	a.mutex.Unlock()

	a.monitor.ObserveOperation(name, err, a.clock.Since(start))
	if err != nil {
		logger.Log.Infow("operation rejected", "chain", a.id, "operation", name, "error", err)
		return err
	}
	a.send(ctx, msgs)
	return nil
}

func (a *Application) execute(ctx context.Context, op message.Operation) ([]message.Message, error) {
	if err := a.authorize(op); err != nil {
		return nil, err
	}
	next := a.state.clone()
	msgs, err := a.apply(next, op)
	if err != nil {
		return nil, err
	}
	if err := a.persist(ctx, next, msgs); err != nil {
		return nil, err
	}
	a.state = next
	return msgs, nil
}

// authorize checks who may run op here before any state is touched. Admin
// operations need the secret and must target the chain that owns the
// projection; everything else is a player operation and only runs on game
// chains.
func (a *Application) authorize(op message.Operation) error {
	admin, ok := op.(message.AdminOperation)
	if !ok {
		if a.role != RoleGame {
			return ErrRoleNotAllowed
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(admin.SecretValue()), []byte(a.secret)) != 1 {
		return ErrUnauthorized
	}
	if owner(admin) != a.role {
		return ErrWrongChain
	}
	return nil
}

func (a *Application) apply(next *ChainState, op message.Operation) ([]message.Message, error) {
	switch op := op.(type) {
	case message.Join:
		return next.Room.Join(a.env(), op)
	case message.Action:
		return next.Room.Act(a.env(), op)
	case message.IdleActionCheck:
		return next.Room.IdleActionCheck(a.env(), op)
	case message.StartLeaderBoard:
		next.Board.On = true
	case message.StopLeaderBoard:
		next.Board.On = false
	case message.ResetLeaderBoard:
		next.Board.Reset()
	case message.ResetAnalytics:
		next.Analytics = projection.Analytics{}
	default:
		return nil, ErrUnknownOperation
	}
	logger.Log.Infow("admin operation applied", "chain", a.id, "operation", message.OperationName(op))
	return nil, nil
}

func (a *Application) env() room.Env {
	if a.selector == nil {
		a.selector = random.NewSelector()
	}
	return room.Env{Now: a.now(), Selector: a.selector}
}

// now is the chain time in microseconds.
func (a *Application) now() uint64 {
	return uint64(a.clock.Now().UnixMicro())
}

func (a *Application) persist(ctx context.Context, next *ChainState, msgs []message.Message) error {
	if a.store == nil {
		return nil
	}
	if err := a.store.SaveChainState(ctx, a.id, string(a.role), next); err != nil {
		return fmt.Errorf("save chain %s: %w", a.id, err)
	}
	for _, m := range msgs {
		if r, ok := m.(message.GameResult); ok {
			rec := models.GameRecord{ChainID: a.id, P1: r.P1, P2: r.P2, Winner: r.Winner, Time: r.Time}
			if err := a.store.SaveGameRecord(ctx, rec); err != nil {
				logger.Log.Warnw("failed to save game record", "chain", a.id, "error", err)
			}
		}
	}
	return nil
}

func (a *Application) send(ctx context.Context, msgs []message.Message) {
	for _, m := range msgs {
		if r, ok := m.(message.GameResult); ok {
			a.monitor.IncGameFinished(r.Winner)
		}
		if a.sender == nil {
			continue
		}
		a.sender.Send(ctx, message.NewEnvelope(a.id, a.chains.Destination(m.Kind()), m))
	}
}

// Receive applies an incoming envelope. A bounced envelope is accepted and
// ignored; a message this chain does not own is refused.
func (a *Application) Receive(ctx context.Context, env message.Envelope) error {
	if env.Message == nil {
		return ErrUnexpectedMessage
	}
	if env.Bounced {
		logger.Log.Infow("bounced message ignored", "chain", a.id, "id", env.ID, "kind", env.Message.Kind())
		return nil
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	next := a.state.clone()
	if err := a.receive(next, env.Message); err != nil {
		return fmt.Errorf("chain %s (%s): %w", a.id, a.role, err)
	}
	if err := a.persist(ctx, next, nil); err != nil {
		return err
	}
	a.state = next
	if a.role == RoleRoomStatus {
		a.monitor.SetActiveRooms(len(next.RoomStatus))
	}
	return nil
}

func (a *Application) receive(next *ChainState, m message.Message) error {
	switch m := m.(type) {
	case message.GameResult:
		if a.role != RoleLeaderboard {
			return ErrUnexpectedMessage
		}
		next.Board.ApplyResult(m)
	case message.RoomUpdate:
		if a.role != RoleRoomStatus {
			return ErrUnexpectedMessage
		}
		next.RoomStatus.Apply(m)
	case message.Analytic:
		if a.role != RoleAnalytics {
			return ErrUnexpectedMessage
		}
		next.Analytics.Record(m.Version)
	case message.PlayerJoin:
		if a.role != RolePlayerStatus {
			return ErrUnexpectedMessage
		}
		next.PlayerStatus.Join(m)
	case message.PlayerFinish:
		if a.role != RolePlayerStatus {
			return ErrUnexpectedMessage
		}
		next.PlayerStatus.Finish(m)
	default:
		return ErrUnexpectedMessage
	}
	return nil
}
