package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/coder/quartz"

	"github.com/wfunc/blackjack/config"
	"github.com/wfunc/blackjack/logger"
	"github.com/wfunc/blackjack/message"
	"github.com/wfunc/blackjack/monitor"
	"github.com/wfunc/blackjack/persistence"
	"github.com/wfunc/blackjack/relay"
	"github.com/wfunc/blackjack/room"
	"github.com/wfunc/blackjack/timer"
)

var ErrUnknownChain = errors.New("chain not hosted by this node")

// Node hosts the projection chains and the configured game chains in one
// process and connects them through a relay.
type Node struct {
	chains Chains
	games  []string
	apps   map[string]*Application
	relay  *relay.Relay
	timers *timer.Manager
}

// NewNode builds one application per chain and restores saved state.
func NewNode(ctx context.Context, cfg *config.Config, store persistence.Database, clock quartz.Clock, mon *monitor.Monitor) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = quartz.NewReal()
	}

	timers := timer.NewManager(clock)
	n := &Node{
		chains: ChainsFromConfig(cfg.Chains),
		games:  append([]string(nil), cfg.Chains.Games...),
		apps:   make(map[string]*Application),
		relay:  relay.New(timers, cfg.Relay.DeliveryDelay, mon),
		timers: timers,
	}

	ids := append([]string{n.chains.Leaderboard, n.chains.RoomStatus, n.chains.Analytics, n.chains.PlayerStatus}, n.games...)
	for _, id := range ids {
		app := NewApplication(Options{
			ChainID: id,
			Chains:  n.chains,
			Secret:  cfg.Leaderboard.Secret,
			Clock:   clock,
			Store:   store,
			Sender:  n.relay,
			Monitor: mon,
		})
		if err := app.Load(ctx); err != nil {
			timers.Stop()
			return nil, err
		}
		n.relay.Register(id, app)
		n.apps[id] = app
	}

	if rs := n.apps[n.chains.RoomStatus]; rs != nil {
		if rooms, err := rs.RoomStatus(); err == nil {
			mon.SetActiveRooms(len(rooms))
		}
	}
	logger.Log.Infow("node ready", "games", len(n.games), "leaderboard", n.chains.Leaderboard)
	return n, nil
}

func (n *Node) Chains() Chains { return n.chains }

// GameChains returns the ids of the hosted game chains.
func (n *Node) GameChains() []string {
	return append([]string(nil), n.games...)
}

func (n *Node) Application(chainID string) (*Application, error) {
	app, ok := n.apps[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}
	return app, nil
}

// Execute runs op on chainID.
func (n *Node) Execute(ctx context.Context, chainID string, op message.Operation) error {
	app, err := n.Application(chainID)
	if err != nil {
		return err
	}
	return app.Execute(ctx, op)
}

// Close stops pending deliveries.
func (n *Node) Close() {
	n.timers.Stop()
}

// PlayData returns the view of playerID on the game chain chainID.
func (n *Node) PlayData(chainID, playerID string) (room.PlayData, error) {
	app, err := n.Application(chainID)
	if err != nil {
		return room.PlayData{}, err
	}
	return app.PlayData(playerID)
}
