package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Status 房间状态
type Status int

const (
	StatusIdle Status = iota
	StatusWaiting
	StatusStarted
	StatusFinish
)

var statusNames = [...]string{"Idle", "Waiting", "Started", "Finish"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Active reports whether a room in this status belongs in the room directory.
func (s Status) Active() bool {
	return s == StatusWaiting || s == StatusStarted
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range statusNames {
		if n == name {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", name)
}

// GameState is the persisted status of one room. LastUpdate is in
// microseconds since the Unix epoch.
type GameState struct {
	Status     Status `json:"status"`
	LastUpdate uint64 `json:"last_update"`
}

// Elapsed returns the microseconds since the last update, zero if now is
// earlier.
func (g GameState) Elapsed(now uint64) uint64 {
	if now < g.LastUpdate {
		return 0
	}
	return now - g.LastUpdate
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// Table lists the allowed status transitions.
type Table struct {
	transitions map[Status]map[Status]bool
	mutex       sync.RWMutex
}

func NewTable() *Table {
	return &Table{transitions: make(map[Status]map[Status]bool)}
}

func (t *Table) AddTransition(from, to Status) *Table {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, exists := t.transitions[from]; !exists {
		t.transitions[from] = make(map[Status]bool)
	}
	t.transitions[from][to] = true
	return t
}

func (t *Table) Allowed(from, to Status) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.transitions[from][to]
}

// Machine drives one GameState through a Table.
type Machine struct {
	table *Table
	state *GameState
}

func NewMachine(table *Table, gs *GameState) *Machine {
	return &Machine{table: table, state: gs}
}

// ChangeState moves to next and stamps the update time. A rejected
// transition leaves the state untouched.
func (m *Machine) ChangeState(next Status, now uint64) error {
	current := m.state.Status
	if !m.table.Allowed(current, next) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, current, next)
	}
	m.state.Status = next
	m.state.LastUpdate = now
	return nil
}

// Touch records activity without a status change.
func (m *Machine) Touch(now uint64) {
	m.state.LastUpdate = now
}

func (m *Machine) GetCurrentState() Status {
	return m.state.Status
}
