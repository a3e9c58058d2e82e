package monitor

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Monitor) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}

func TestMonitorCounts(t *testing.T) {
	m := NewMonitor("test")

	m.ObserveOperation("join", nil, time.Millisecond)
	m.ObserveOperation("join", errors.New("boom"), time.Millisecond)
	m.IncDelivered("game_result")
	m.IncBounced("analytic")
	m.IncGameFinished("")
	m.SetActiveRooms(3)

	body := scrape(t, m)
	assert.Contains(t, body, `test_operations_total{operation="join",result="ok"} 1`)
	assert.Contains(t, body, `test_operations_total{operation="join",result="error"} 1`)
	assert.Contains(t, body, `test_messages_delivered_total{kind="game_result"} 1`)
	assert.Contains(t, body, `test_messages_bounced_total{kind="analytic"} 1`)
	assert.Contains(t, body, `test_games_finished_total{outcome="draw"} 1`)
	assert.Contains(t, body, "test_active_rooms 3")
	assert.Contains(t, body, "test_operation_latency_seconds_count 2")
}

func TestMonitorsDoNotShareRegistry(t *testing.T) {
	a := NewMonitor("test")
	b := NewMonitor("test")
	a.IncOnlineSessions()

	assert.Contains(t, scrape(t, a), "test_online_sessions 1")
	assert.Contains(t, scrape(t, b), "test_online_sessions 0")
}

func TestNilMonitor(t *testing.T) {
	var m *Monitor
	assert.NotPanics(t, func() {
		m.IncOnlineSessions()
		m.DecOnlineSessions()
		m.SetActiveRooms(1)
		m.ObserveOperation("join", nil, 0)
		m.IncDelivered("x")
		m.IncBounced("x")
		m.IncGameFinished("a")
	})
}

func TestRegistryGathers(t *testing.T) {
	m := NewMonitor("test")
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
