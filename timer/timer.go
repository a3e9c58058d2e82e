// timer/timer.go
package timer

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Manager schedules one-shot callbacks on a clock. Each callback runs at
// most once and can be cancelled until it fires.
type Manager struct {
	clock   quartz.Clock
	mutex   sync.Mutex
	nextID  int64
	timers  map[int64]*quartz.Timer
	stopped bool
}

func NewManager(clock quartz.Clock) *Manager {
	return &Manager{
		clock:  clock,
		nextID: 1,
		timers: make(map[int64]*quartz.Timer),
	}
}

// AddTimer runs callback after delay and returns the timer id. It returns 0
// and drops the callback once the manager is stopped.
func (m *Manager) AddTimer(delay time.Duration, callback func()) int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.stopped {
		return 0
	}
	id := m.nextID
	m.nextID++
	m.timers[id] = m.clock.AfterFunc(delay, func() {
		m.mutex.Lock()
		_, live := m.timers[id]
		delete(m.timers, id)
		m.mutex.Unlock()
		if live {
			callback()
		}
	}, "timer", "add")
	return id
}

// RemoveTimer cancels a pending timer. It reports false if the timer already
// fired or never existed.
func (m *Manager) RemoveTimer(id int64) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	t, ok := m.timers[id]
	if !ok {
		return false
	}
	delete(m.timers, id)
	t.Stop()
	return true
}

// Pending returns the number of timers that have not fired.
func (m *Manager) Pending() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.timers)
}

// Stop cancels every pending timer and rejects new ones.
func (m *Manager) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.stopped = true
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
}
