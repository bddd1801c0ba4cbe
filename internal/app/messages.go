package app

import "github.com/Thibisault/Intimacy-Coach/internal/plan"

// EngineEventMsg wraps one engine notification: session.Tick,
// session.ActionChanged, session.SegmentChanged or session.StateChanged.
type EngineEventMsg struct {
	Event any
}

// EventsClosedMsg is sent when the notification channel is closed.
type EventsClosedMsg struct{}

// ToggleResultMsg carries the outcome of a start/pause/resume request.
type ToggleResultMsg struct {
	Err error
}

// DrawResultMsg carries a single draw.
type DrawResultMsg struct {
	Action plan.Action
	OK     bool
	Err    error
}

// SavedMsg reports a configuration save.
type SavedMsg struct {
	Err error
}

// ClearNoticeMsg clears the transient notice line.
type ClearNoticeMsg struct{}
