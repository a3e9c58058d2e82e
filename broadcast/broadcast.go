// broadcast/broadcast.go
package broadcast

import (
	"encoding/json"
	"errors"

	"github.com/wfunc/blackjack/logger"
	"github.com/wfunc/blackjack/network"
	"github.com/wfunc/blackjack/room"
	"github.com/wfunc/blackjack/session"
)

// ViewProvider returns the view of playerID on a game chain; an unseated or
// empty playerID gets the spectator view.
type ViewProvider interface {
	PlayData(chainID, playerID string) (room.PlayData, error)
}

// 广播接口
type Broadcaster interface {
	PushViews(chainID string) error
	BroadcastToChain(chainID string, msgID uint16, data []byte) error
}

// RoomBroadcaster sends room views to the sessions watching a game chain.
type RoomBroadcaster struct {
	views          ViewProvider
	sessionManager *session.Manager
}

func NewRoomBroadcaster(views ViewProvider, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		views:          views,
		sessionManager: sessionManager,
	}
}

// PushViews sends every session of chainID its own view. Each player only
// ever receives the cards their view allows.
func (b *RoomBroadcaster) PushViews(chainID string) error {
	var errs []error
	for _, s := range b.sessionManager.InChain(chainID) {
		if err := b.PushView(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PushView sends one session its current view.
func (b *RoomBroadcaster) PushView(s *session.Session) error {
	pd, err := b.views.PlayData(s.ChainID, s.PlayerID())
	if err != nil {
		return err
	}
	data, err := json.Marshal(pd)
	if err != nil {
		return err
	}
	if err := s.Send(network.MsgTypePlayData, data); err != nil {
		logger.Log.Warnw("failed to push view", "session", s.GetID(), "chain", s.ChainID, "error", err)
		return err
	}
	return nil
}

func (b *RoomBroadcaster) BroadcastToChain(chainID string, msgID uint16, data []byte) error {
	var errs []error
	for _, s := range b.sessionManager.InChain(chainID) {
		if err := s.Send(msgID, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
