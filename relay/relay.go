package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wfunc/blackjack/logger"
	"github.com/wfunc/blackjack/message"
	"github.com/wfunc/blackjack/monitor"
	"github.com/wfunc/blackjack/timer"
)

var ErrUnknownChain = errors.New("unknown destination chain")

// Receiver applies an envelope addressed to its chain. A returned error
// means the envelope was refused and goes back to its source.
type Receiver interface {
	Receive(ctx context.Context, env message.Envelope) error
}

// Relay moves envelopes between chains hosted in one process. Delivery is
// one-way and unordered; a refused envelope is returned to its sender once,
// marked as bounced.
type Relay struct {
	mutex     sync.RWMutex
	receivers map[string]Receiver
	timers    *timer.Manager
	delay     time.Duration
	monitor   *monitor.Monitor
}

// New creates a relay. With a zero delay or nil timers every envelope is
// delivered before Send returns.
func New(timers *timer.Manager, delay time.Duration, mon *monitor.Monitor) *Relay {
	return &Relay{
		receivers: make(map[string]Receiver),
		timers:    timers,
		delay:     delay,
		monitor:   mon,
	}
}

func (r *Relay) Register(chainID string, rc Receiver) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.receivers[chainID] = rc
}

func (r *Relay) Unregister(chainID string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.receivers, chainID)
}

// Send schedules env for delivery.
func (r *Relay) Send(ctx context.Context, env message.Envelope) {
	if r.delay <= 0 || r.timers == nil {
		r.deliver(ctx, env)
		return
	}
	ctx = context.WithoutCancel(ctx)
	r.timers.AddTimer(r.delay, func() { r.deliver(ctx, env) })
}

func (r *Relay) deliver(ctx context.Context, env message.Envelope) {
	kind := "unknown"
	if env.Message != nil {
		kind = string(env.Message.Kind())
	}

	r.mutex.RLock()
	rc, ok := r.receivers[env.Destination]
	r.mutex.RUnlock()

	err := ErrUnknownChain
	if ok {
		err = rc.Receive(ctx, env)
	}
	if err == nil {
		if !env.Bounced {
			r.monitor.IncDelivered(kind)
		}
		return
	}

	if env.Bounced {
		logger.Log.Warnw("bounced message refused by its sender, dropping",
			"id", env.ID, "kind", kind, "chain", env.Destination, "error", err)
		return
	}
	logger.Log.Infow("message refused, bouncing",
		"id", env.ID, "kind", kind, "from", env.Source, "to", env.Destination, "error", err)
	r.monitor.IncBounced(kind)
	r.Send(ctx, env.Bounce())
}
