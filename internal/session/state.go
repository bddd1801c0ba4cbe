// Package session drives a live countdown through a plan: pause, resume,
// stop and the navigation intents, with narration and observer
// notifications as side effects.
package session

import "errors"

// State is the engine run-state.
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// ParseState maps a wire name back to a State.
func ParseState(v string) (State, bool) {
	for _, st := range []State{Idle, Running, Paused} {
		if st.String() == v {
			return st, true
		}
	}
	return Idle, false
}

// Intent is a navigation request consumed at the next tick boundary.
type Intent int

const (
	NoIntent Intent = iota
	SkipAction
	PrevAction
	NextSegment
	StopSession
)

func (i Intent) String() string {
	switch i {
	case SkipAction:
		return "skip_action"
	case PrevAction:
		return "prev_action"
	case NextSegment:
		return "next_segment"
	case StopSession:
		return "stop_session"
	default:
		return "none"
	}
}

// ParseIntent maps the wire names back to intents.
func ParseIntent(v string) (Intent, bool) {
	for _, i := range []Intent{SkipAction, PrevAction, NextSegment, StopSession} {
		if i.String() == v {
			return i, true
		}
	}
	return NoIntent, false
}

// Reason explains a state change.
type Reason string

const (
	ReasonStarted  Reason = "started"
	ReasonPaused   Reason = "paused"
	ReasonResumed  Reason = "resumed"
	ReasonStopped  Reason = "stopped"
	ReasonFinished Reason = "finished"
)

var (
	// ErrAlreadyRunning is returned by Start when a session is active.
	ErrAlreadyRunning = errors.New("session already running")
	// ErrEmptyPlan is returned by Start for a plan without any action.
	ErrEmptyPlan = errors.New("plan has no actions")
	// ErrNarratorUnavailable is returned by Start when narration is not ready.
	ErrNarratorUnavailable = errors.New("narration unavailable")
)

// Cursor is the live playback position.
type Cursor struct {
	Segment int
	Action  int
	// Elapsed is whole seconds spent in the current action.
	Elapsed int
}
