// Package db stores session and draw history in SQLite.
package db

import "time"

// Session statuses.
const (
	StatusActive    = "active"
	StatusFinished  = "finished"
	StatusStopped   = "stopped"
	StatusAbandoned = "abandoned"
)

// Session is one played plan.
type Session struct {
	ID              string
	StartedAt       time.Time
	EndedAt         *time.Time
	Status          string
	SegmentsTotal   int
	SegmentsReached int
	ActionsPlayed   int
	PlannedSeconds  int
}

// Duration is the played time, or zero while active.
func (s Session) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Draw is one action drawn outside a session.
type Draw struct {
	ID      string
	Segment string
	Text    string
	TextZH  string
	DrawnAt time.Time
}
