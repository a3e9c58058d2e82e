package persistence

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/wfunc/blackjack/models"
)

// Memory keeps everything in process. State is stored encoded so a loaded
// value never aliases the saved one.
type Memory struct {
	mutex   sync.RWMutex
	states  map[string][]byte
	roles   map[string]string
	records []models.GameRecord
}

func NewMemory() *Memory {
	return &Memory{
		states: make(map[string][]byte),
		roles:  make(map[string]string),
	}
}

func (m *Memory) LoadChainState(_ context.Context, chainID string, out any) error {
	m.mutex.RLock()
	data, ok := m.states[chainID]
	m.mutex.RUnlock()
	if !ok {
		return ErrRecordNotFound
	}
	return json.Unmarshal(data, out)
}

func (m *Memory) SaveChainState(_ context.Context, chainID, role string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.states[chainID] = data
	m.roles[chainID] = role
	return nil
}

func (m *Memory) SaveGameRecord(_ context.Context, record models.GameRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.records = append(m.records, record)
	return nil
}

// GameRecords returns the saved records of chainID in insertion order.
func (m *Memory) GameRecords(chainID string) []models.GameRecord {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var out []models.GameRecord
	for _, r := range m.records {
		if r.ChainID == chainID {
			out = append(out, r)
		}
	}
	return out
}

// Role returns the role a chain was saved with.
func (m *Memory) Role(chainID string) string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.roles[chainID]
}

func (m *Memory) Close() error { return nil }
