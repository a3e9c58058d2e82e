package rpc

import (
	"context"
	"net/rpc"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/blackjack/config"
	"github.com/wfunc/blackjack/message"
	"github.com/wfunc/blackjack/persistence"
	"github.com/wfunc/blackjack/services"
	"github.com/wfunc/blackjack/state"
)

func startQueryServer(t *testing.T) (*services.Node, *rpc.Client) {
	t.Helper()
	ctx := context.Background()
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)).MustWait(ctx)

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Chains: config.ChainsConfig{
			Leaderboard:  "lb",
			RoomStatus:   "rs",
			Analytics:    "an",
			PlayerStatus: "ps",
			Games:        []string{"g1"},
		},
		Leaderboard: config.LeaderboardConfig{Secret: "s3cret"},
	}
	node, err := services.NewNode(ctx, cfg, persistence.NewMemory(), clock, nil)
	require.NoError(t, err)
	t.Cleanup(node.Close)

	srv, err := NewServer("127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, srv.Register(NewQueryService(node)))
	go srv.Start()
	t.Cleanup(srv.Stop)

	client, err := rpc.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return node, client
}

func TestQueryService(t *testing.T) {
	node, client := startQueryServer(t)
	ctx := context.Background()
	require.NoError(t, node.Execute(ctx, "g1", message.Join{PlayerID: "a", PlayerName: "Alice", ClientVersion: "1.0", GroupID: "red"}))
	require.NoError(t, node.Execute(ctx, "g1", message.Join{PlayerID: "b", PlayerName: "Bob", ClientVersion: "1.0", GroupID: "blue"}))

	var insight InsightReply
	require.NoError(t, client.Call("QueryService.Insight", &ChainArgs{ChainID: "g1"}, &insight))
	assert.Equal(t, state.StatusStarted, insight.Insight.Status)
	assert.Equal(t, "Alice", insight.Insight.PlayerOne.Name)

	var pd PlayDataReply
	require.NoError(t, client.Call("QueryService.PlayData", &PlayDataArgs{ChainID: "g1", PlayerID: "a"}, &pd))
	assert.Len(t, pd.PlayData.MyCard, 2)
	assert.Len(t, pd.PlayData.OpponentCard, 1)

	var rooms RoomStatusReply
	require.NoError(t, client.Call("QueryService.RoomStatus", &ChainArgs{ChainID: "rs"}, &rooms))
	require.Len(t, rooms.Rooms, 1)
	assert.Equal(t, "g1", rooms.Rooms[0].RoomID)

	var players PlayerStatusReply
	require.NoError(t, client.Call("QueryService.PlayerStatus", &ChainArgs{ChainID: "ps"}, &players))
	assert.Contains(t, players.Players, "Alice")
	assert.Contains(t, players.Players, "Bob")

	var counts AnalyticsReply
	require.NoError(t, client.Call("QueryService.Analytics", &ChainArgs{ChainID: "an"}, &counts))
	assert.Equal(t, uint64(2), counts.Counts["1.0"])
}

func TestQueryServiceAdmin(t *testing.T) {
	_, client := startQueryServer(t)

	var ok AdminReply
	err := client.Call("QueryService.Admin", &AdminArgs{ChainID: "lb", Op: "stop_leaderboard", Secret: "wrong"}, &ok)
	assert.ErrorContains(t, err, services.ErrUnauthorized.Error())

	require.NoError(t, client.Call("QueryService.Admin", &AdminArgs{ChainID: "lb", Op: "stop_leaderboard", Secret: "s3cret"}, &ok))
	assert.True(t, ok.OK)

	var lb LeaderboardReply
	require.NoError(t, client.Call("QueryService.Leaderboard", &ChainArgs{ChainID: "lb"}, &lb))
	assert.False(t, lb.Leaderboard.On)

	var history HistoryReply
	require.NoError(t, client.Call("QueryService.History", &HistoryArgs{ChainID: "lb", Limit: 10}, &history))
	assert.Empty(t, history.Games)
}

func TestQueryServiceErrors(t *testing.T) {
	_, client := startQueryServer(t)

	var insight InsightReply
	err := client.Call("QueryService.Insight", &ChainArgs{ChainID: "nope"}, &insight)
	assert.ErrorContains(t, err, services.ErrUnknownChain.Error())

	err = client.Call("QueryService.Insight", &ChainArgs{ChainID: "lb"}, &insight)
	assert.ErrorContains(t, err, services.ErrRoleNotAllowed.Error())
}
