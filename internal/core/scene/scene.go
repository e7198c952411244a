// Package scene runs the game's screens: the Scene lifecycle, a stack
// Manager for pause-style overlays, and a named StateMachine with timed
// transitions.
package scene

import (
	"github.com/zeusync/snakecore/internal/core/platform"
)

// Scene is a self-contained mode of the game. Initialize may run again after
// Dispose when the scene is re-entered; Dispose must tolerate a scene that
// was never initialized and repeated calls.
type Scene interface {
	Name() string
	Initialize() error
	Update(dt float64)
	Render(s platform.Surface)
	Dispose()
}

type State uint8

const (
	StateUninitialized State = iota
	StateInitialized
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Stateful scenes report their lifecycle state; managers use it to skip
// redundant Initialize calls.
type Stateful interface {
	State() State
}

func stateOf(s Scene) State {
	if st, ok := s.(Stateful); ok {
		return st.State()
	}
	return StateUninitialized
}
