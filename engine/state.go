package engine

import "sync"

// State represents the lifecycle state of a session.
type State int

const (
	// StateUninitialized is the state before Start.
	StateUninitialized State = iota
	// StateStarting means the start command has been sent.
	StateStarting
	// StateActive means the worker has acknowledged the session.
	StateActive
	// StateTerminated means Stop ran or the process exited. Terminated is
	// absorbing: no further commands are valid and a new session requires a
	// fresh instance.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStarting:
		return "starting"
	case StateActive:
		return "active"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// stateMachine manages thread-safe session state transitions.
type stateMachine struct {
	mu    sync.RWMutex
	state State
}

func newStateMachine() *stateMachine {
	return &stateMachine{state: StateUninitialized}
}

func (m *stateMachine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *stateMachine) SetStarting() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateUninitialized {
		return ErrInvalidState
	}
	m.state = StateStarting
	return nil
}

func (m *stateMachine) SetActive() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Active re-enters Active after each exchange.
	if m.state != StateStarting && m.state != StateActive {
		return ErrInvalidState
	}
	m.state = StateActive
	return nil
}

// SetTerminated is valid from any state.
func (m *stateMachine) SetTerminated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateTerminated
}

func (m *stateMachine) IsTerminated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateTerminated
}
