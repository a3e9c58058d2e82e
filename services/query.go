package services

import (
	"github.com/wfunc/blackjack/models"
	"github.com/wfunc/blackjack/projection"
	"github.com/wfunc/blackjack/room"
)

// LeaderboardView is the full leaderboard chain listing.
type LeaderboardView struct {
	On      bool                `json:"on"`
	ByName  []models.PlayRecord `json:"by_name"`
	ByGroup []models.PlayRecord `json:"by_group"`
	Count   uint32              `json:"count"`
}

func (a *Application) require(role Role) error {
	if a.role != role {
		return ErrRoleNotAllowed
	}
	return nil
}

// Insight returns the room snapshot of a game chain.
func (a *Application) Insight() (models.Insight, error) {
	if err := a.require(RoleGame); err != nil {
		return models.Insight{}, err
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.state.Room.Insight(), nil
}

// PlayData returns the view of playerID, or the spectator view when
// playerID is not seated.
func (a *Application) PlayData(playerID string) (room.PlayData, error) {
	if err := a.require(RoleGame); err != nil {
		return room.PlayData{}, err
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if pd, ok := a.state.Room.PlayData(playerID); ok {
		return pd, nil
	}
	return a.state.Room.SpectatorView(), nil
}

// History returns up to limit finished games, newest first.
func (a *Application) History(limit int) ([]models.History, error) {
	if err := a.require(RoleLeaderboard); err != nil {
		return nil, err
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.state.Board.HistoryTail(limit), nil
}

func (a *Application) Leaderboard() (LeaderboardView, error) {
	if err := a.require(RoleLeaderboard); err != nil {
		return LeaderboardView{}, err
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	b := a.state.Board
	return LeaderboardView{
		On:      b.On,
		ByName:  b.ByName.Ranked(),
		ByGroup: b.ByGroup.Ranked(),
		Count:   b.ByName.Count,
	}, nil
}

func (a *Application) RoomStatus() ([]projection.RoomEntry, error) {
	if err := a.require(RoleRoomStatus); err != nil {
		return nil, err
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.state.RoomStatus.List(), nil
}

func (a *Application) PlayerStatus() (projection.PlayerDirectory, error) {
	if err := a.require(RolePlayerStatus); err != nil {
		return nil, err
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.state.PlayerStatus.Clone(), nil
}

func (a *Application) Analytics() (projection.Analytics, error) {
	if err := a.require(RoleAnalytics); err != nil {
		return nil, err
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.state.Analytics.Clone(), nil
}
