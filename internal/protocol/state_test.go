package protocol

import (
	"errors"
	"sync"
	"testing"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Handshake, "Handshake"},
		{Status, "Status"},
		{Login, "Login"},
		{Play, "Play"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, 期望 %q", int(tt.state), got, tt.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{Handshake, Status, true},
		{Handshake, Login, true},
		{Handshake, Play, false},
		{Login, Play, true},
		{Login, Status, false},
		{Status, Login, false},
		{Status, Play, false},
		{Play, Login, false},
		{Play, Handshake, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, 期望 %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestConnState(t *testing.T) {
	cs := NewConnState()
	if cs.Get() != Handshake {
		t.Errorf("初始状态 = %s, 期望 Handshake", cs.Get())
	}
	if cs.GetThreshold() != -1 {
		t.Errorf("初始阈值 = %d, 期望 -1", cs.GetThreshold())
	}

	if err := cs.Transition(Play); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Handshake -> Play error = %v, 期望 ErrIllegalTransition", err)
	}
	if err := cs.Transition(Login); err != nil {
		t.Fatal(err)
	}
	cs.SetThreshold(256)
	if err := cs.Transition(Play); err != nil {
		t.Fatal(err)
	}
	state, threshold := cs.Snapshot()
	if state != Play || threshold != 256 {
		t.Errorf("Snapshot() = %s, %d, 期望 Play, 256", state, threshold)
	}
}

func TestConnStateConcurrent(t *testing.T) {
	cs := NewConnState()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			cs.SetThreshold(i)
		}(i)
		go func() {
			defer wg.Done()
			_, _ = cs.Snapshot()
		}()
	}
	wg.Wait()
}
