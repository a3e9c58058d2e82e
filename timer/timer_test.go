package timer

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFired(t *testing.T, ch <-chan int64) int64 {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
		return 0
	}
}

func TestManager_AddTimer(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	m := NewManager(clock)

	fired := make(chan int64, 1)
	id := m.AddTimer(50*time.Millisecond, func() { fired <- 1 })
	require.NotZero(t, id)
	assert.Equal(t, 1, m.Pending())

	clock.Advance(50 * time.Millisecond).MustWait(ctx)
	waitFired(t, fired)
	assert.Equal(t, 0, m.Pending())
	assert.False(t, m.RemoveTimer(id))
}

func TestManager_RemoveTimer(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	m := NewManager(clock)

	fired := make(chan int64, 2)
	first := m.AddTimer(10*time.Millisecond, func() { fired <- 1 })
	m.AddTimer(20*time.Millisecond, func() { fired <- 2 })

	assert.True(t, m.RemoveTimer(first))
	assert.Equal(t, 1, m.Pending())

	clock.Advance(20 * time.Millisecond).MustWait(ctx)
	assert.Equal(t, int64(2), waitFired(t, fired))
	assert.Empty(t, fired)
}

func TestManager_Stop(t *testing.T) {
	clock := quartz.NewMock(t)
	m := NewManager(clock)

	m.AddTimer(time.Second, func() { t.Error("stopped timer fired") })
	m.Stop()

	assert.Equal(t, 0, m.Pending())
	assert.Zero(t, m.AddTimer(time.Second, func() {}))
}
