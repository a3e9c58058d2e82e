package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/blackjack/message"
	"github.com/wfunc/blackjack/models"
	"github.com/wfunc/blackjack/state"
)

func TestUpdatePlayerWinLose(t *testing.T) {
	l := NewLeaderboard()
	l.UpdatePlayer("Alice", "Alice")
	l.UpdatePlayer("Bob", "Alice")

	assert.Equal(t, models.PlayRecord{Key: "Alice", Win: 1, Play: 1}, l.Players["Alice"])
	assert.Equal(t, models.PlayRecord{Key: "Bob", Lose: 1, Play: 1}, l.Players["Bob"])
}

func TestUpdatePlayerDrawTwice(t *testing.T) {
	l := NewLeaderboard()
	for i := 0; i < 2; i++ {
		l.UpdatePlayer("Alice", "")
		l.UpdatePlayer("Bob", "")
	}
	assert.Equal(t, models.PlayRecord{Key: "Alice", Play: 2}, l.Players["Alice"])
	assert.Equal(t, models.PlayRecord{Key: "Bob", Play: 2}, l.Players["Bob"])
}

func TestUpdatePlayerSkipsEmptySubject(t *testing.T) {
	l := NewLeaderboard()
	l.UpdatePlayer("", "x")
	assert.Empty(t, l.Players)
}

func TestCountersSaturate(t *testing.T) {
	l := NewLeaderboard()
	l.Players["Alice"] = models.PlayRecord{Key: "Alice", Win: math.MaxUint32, Play: math.MaxUint32}
	l.Count = math.MaxUint32

	l.UpdatePlayer("Alice", "Alice")
	l.CountGame()

	rec := l.Players["Alice"]
	assert.Equal(t, uint32(math.MaxUint32), rec.Win)
	assert.Equal(t, uint32(math.MaxUint32), rec.Play)
	assert.Equal(t, uint32(math.MaxUint32), l.Count)
}

func TestRanked(t *testing.T) {
	l := NewLeaderboard()
	l.Players = map[string]models.PlayRecord{
		"c": {Key: "c", Win: 1, Lose: 3, Play: 4},
		"a": {Key: "a", Win: 3, Lose: 1, Play: 4},
		"b": {Key: "b", Win: 1, Lose: 0, Play: 1},
		"d": {Key: "d", Win: 0, Lose: 0, Play: 2},
	}
	var keys []string
	for _, r := range l.Ranked() {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, keys)
}

func result(p1, p2, winner string, ts uint64) message.GameResult {
	groups := map[string]string{"Alice": "red", "Bob": "blue", "Carol": "red"}
	return message.GameResult{
		P1: p1, P2: p2, P1Group: groups[p1], P2Group: groups[p2],
		Winner: winner, WinnerGroup: groups[winner], Time: ts,
	}
}

func TestBoardApplyResult(t *testing.T) {
	b := NewBoard()
	b.ApplyResult(result("Alice", "Bob", "Bob", 1))
	b.ApplyResult(result("Alice", "Carol", "", 2))

	assert.Equal(t, uint32(2), b.ByName.Count)
	assert.Equal(t, models.PlayRecord{Key: "Alice", Lose: 1, Play: 2}, b.ByName.Players["Alice"])
	assert.Equal(t, models.PlayRecord{Key: "Bob", Win: 1, Play: 1}, b.ByName.Players["Bob"])

	// Alice and Carol share a group, their game counts once for it
	assert.Equal(t, models.PlayRecord{Key: "red", Lose: 1, Play: 2}, b.ByGroup.Players["red"])
	assert.Equal(t, models.PlayRecord{Key: "blue", Win: 1, Play: 1}, b.ByGroup.Players["blue"])
	assert.Len(t, b.History, 2)
}

func TestBoardSwitchedOff(t *testing.T) {
	b := NewBoard()
	b.On = false
	b.ApplyResult(result("Alice", "Bob", "Alice", 1))

	assert.Empty(t, b.ByName.Players)
	assert.Zero(t, b.ByName.Count)
	assert.Len(t, b.History, 1)
}

func TestHistoryTail(t *testing.T) {
	b := NewBoard()
	for ts := uint64(1); ts <= 5; ts++ {
		b.ApplyResult(result("Alice", "Bob", "Alice", ts))
	}

	tail := b.HistoryTail(2)
	require.Len(t, tail, 2)
	assert.Equal(t, uint64(5), tail[0].Time)
	assert.Equal(t, uint64(4), tail[1].Time)
	assert.Len(t, b.HistoryTail(10), 5)
	assert.Len(t, b.HistoryTail(0), 5)
	assert.Empty(t, NewBoard().HistoryTail(3))
}

func TestBoardResetAndClone(t *testing.T) {
	b := NewBoard()
	b.ApplyResult(result("Alice", "Bob", "Alice", 1))
	c := b.Clone()

	b.Reset()
	assert.Empty(t, b.ByName.Players)
	assert.Empty(t, b.ByGroup.Players)
	assert.Zero(t, b.ByName.Count)
	assert.Empty(t, b.History)

	assert.Len(t, c.ByName.Players, 2)
	assert.Len(t, c.History, 1)
}

func TestRoomDirectory(t *testing.T) {
	d := RoomDirectory{}
	d.Apply(message.RoomUpdate{RoomID: "r1", Insight: models.Insight{Status: state.StatusWaiting}})
	d.Apply(message.RoomUpdate{RoomID: "r2", Insight: models.Insight{Status: state.StatusStarted}})
	require.Len(t, d.List(), 2)
	assert.Equal(t, "r1", d.List()[0].RoomID)

	d.Apply(message.RoomUpdate{RoomID: "r1", Insight: models.Insight{Status: state.StatusFinish}})
	d.Apply(message.RoomUpdate{RoomID: "r9", Insight: models.Insight{Status: state.StatusIdle}})
	assert.Len(t, d, 1)
	assert.Contains(t, d, "r2")
}

func TestPlayerDirectory(t *testing.T) {
	d := PlayerDirectory{}
	d.Join(message.PlayerJoin{Name: "Alice", GroupID: "red", Time: 7})
	d.Join(message.PlayerJoin{Name: "Bob", GroupID: "blue", Time: 8})
	assert.Equal(t, models.Presence{GroupID: "red", Time: 7}, d["Alice"])

	d.Finish(message.PlayerFinish{P1: "Alice", P2: "Nobody"})
	assert.NotContains(t, d, "Alice")
	assert.Contains(t, d, "Bob")
}

func TestAnalytics(t *testing.T) {
	a := Analytics{}
	a.Record("1.0.0")
	a.Record("1.0.0")
	a.Record("2.0.0")
	assert.Equal(t, Analytics{"1.0.0": 2, "2.0.0": 1}, a)

	a["max"] = math.MaxUint64
	a.Record("max")
	assert.Equal(t, uint64(math.MaxUint64), a["max"])
}
