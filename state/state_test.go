package state

import (
	"encoding/json"
	"errors"
	"testing"
)

func newTestTable() *Table {
	return NewTable().
		AddTransition(StatusIdle, StatusWaiting).
		AddTransition(StatusWaiting, StatusStarted).
		AddTransition(StatusStarted, StatusFinish)
}

func TestMachine_InitialState(t *testing.T) {
	gs := &GameState{}
	sm := NewMachine(newTestTable(), gs)

	if sm.GetCurrentState() != StatusIdle {
		t.Errorf("Expected initial state Idle, got %s", sm.GetCurrentState())
	}
}

func TestMachine_ChangeState(t *testing.T) {
	gs := &GameState{}
	sm := NewMachine(newTestTable(), gs)

	if err := sm.ChangeState(StatusWaiting, 100); err != nil {
		t.Fatalf("ChangeState should not return an error, but got: %v", err)
	}
	if gs.Status != StatusWaiting {
		t.Errorf("Expected status Waiting, got %s", gs.Status)
	}
	if gs.LastUpdate != 100 {
		t.Errorf("Expected last update 100, got %d", gs.LastUpdate)
	}
}

func TestMachine_BlockedTransition(t *testing.T) {
	gs := &GameState{Status: StatusWaiting, LastUpdate: 5}
	sm := NewMachine(newTestTable(), gs)

	err := sm.ChangeState(StatusFinish, 10)
	if !errors.Is(err, ErrTransitionNotAllowed) {
		t.Errorf("Expected ErrTransitionNotAllowed, but got: %v", err)
	}
	if gs.Status != StatusWaiting || gs.LastUpdate != 5 {
		t.Errorf("Blocked transition must not modify state, got %+v", *gs)
	}
}

func TestGameState_Elapsed(t *testing.T) {
	gs := GameState{LastUpdate: 1_000}
	if got := gs.Elapsed(19_000); got != 18_000 {
		t.Errorf("Expected 18000, got %d", got)
	}
	if got := gs.Elapsed(10); got != 0 {
		t.Errorf("Expected 0 for a clock behind the last update, got %d", got)
	}
}

func TestStatus_JSON(t *testing.T) {
	data, err := json.Marshal(StatusStarted)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"Started"` {
		t.Errorf("Expected \"Started\", got %s", data)
	}

	var s Status
	if err := json.Unmarshal([]byte(`"Finish"`), &s); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if s != StatusFinish {
		t.Errorf("Expected Finish, got %s", s)
	}
	if err := json.Unmarshal([]byte(`"Bogus"`), &s); err == nil {
		t.Error("Expected an error for an unknown status")
	}
}

func TestStatus_Active(t *testing.T) {
	if StatusIdle.Active() || StatusFinish.Active() {
		t.Error("Idle and Finish must not be active")
	}
	if !StatusWaiting.Active() || !StatusStarted.Active() {
		t.Error("Waiting and Started must be active")
	}
}
