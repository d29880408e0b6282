package protocol

import (
	"fmt"
	"sync"
)

type State int

const (
	Handshake State = iota
	Status
	Login
	Play
)

func (s State) String() string {
	switch s {
	case Handshake:
		return "Handshake"
	case Status:
		return "Status"
	case Login:
		return "Login"
	case Play:
		return "Play"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// NextState values carried by the Handshake packet.
const (
	NextStateStatus int32 = 1
	NextStateLogin  int32 = 2
)

// CanTransition reports whether the protocol allows moving from one state to another.
func CanTransition(from, to State) bool {
	switch from {
	case Handshake:
		return to == Status || to == Login
	case Login:
		return to == Play
	default:
		return false
	}
}

// ConnState holds the protocol state and compression threshold of one connection.
type ConnState struct {
	mu        sync.Mutex
	state     State
	threshold int
}

func NewConnState() *ConnState {
	return &ConnState{
		threshold: -1,
	}
}

// Transition moves to the next protocol state if the move is legal.
func (cs *ConnState) Transition(to State) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if !CanTransition(cs.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, cs.state, to)
	}
	cs.state = to
	return nil
}

func (cs *ConnState) Get() State {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.state
}

// SetThreshold enables compression for threshold >= 0.
func (cs *ConnState) SetThreshold(t int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.threshold = t
}

func (cs *ConnState) GetThreshold() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.threshold
}

// Snapshot returns state and threshold under one lock.
func (cs *ConnState) Snapshot() (State, int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.state, cs.threshold
}
