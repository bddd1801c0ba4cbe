// Package plan turns a sequence configuration and a content resolver into a
// concrete Plan of timed actions.
package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
)

// MinDurationFloor is the smallest allowed per-action minimum, in seconds.
const MinDurationFloor = 5

var (
	// ErrMissingRange is returned when a sequenced segment has no range.
	ErrMissingRange = errors.New("missing duration range")
	// ErrInvalidRange is returned for a range violating min <= max or the floor.
	ErrInvalidRange = errors.New("invalid duration range")
)

// Range is the closed per-action duration range of a segment, in seconds.
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Validate checks the floor and ordering.
func (r Range) Validate() error {
	if r.Min < MinDurationFloor {
		return fmt.Errorf("%w: min %d below %d", ErrInvalidRange, r.Min, MinDurationFloor)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%w: max %d below min %d", ErrInvalidRange, r.Max, r.Min)
	}
	return nil
}

// Participants are the display names substituted for {P1} and {P2}.
type Participants struct {
	P1 string `yaml:"p1" json:"p1"`
	P2 string `yaml:"p2" json:"p2"`
}

// Substitute replaces the name placeholders in s.
func (p Participants) Substitute(s string) string {
	return strings.NewReplacer("{P1}", p.P1, "{P2}", p.P2).Replace(s)
}

// Settings is everything the builder reads.
type Settings struct {
	Participants Participants
	Sequence     Sequence
	Ranges       map[content.Segment]Range
	ActorMode    ActorMode
	Filters      content.Filters
}

// Action is one concrete, resolved, timed step.
type Action struct {
	Segment  content.Segment `json:"segment"`
	Actor    content.Actor   `json:"actor"`
	Target   content.Actor   `json:"target"`
	Text     string          `json:"text"`
	TextZH   string          `json:"text_zh,omitempty"`
	Duration int             `json:"duration"`
	Image    string          `json:"image,omitempty"`
}

// SegmentPlan is the ordered action list of one sequence step.
type SegmentPlan struct {
	Segment content.Segment `json:"segment"`
	Actions []Action        `json:"actions"`
}

// Duration is the sum of the action durations.
func (s SegmentPlan) Duration() int {
	total := 0
	for _, a := range s.Actions {
		total += a.Duration
	}
	return total
}

// Plan is the ordered list of segments, one per sequence step.
type Plan struct {
	Segments []SegmentPlan `json:"segments"`
}

// Len returns the number of segments.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Segments)
}

// ActionCount returns the number of actions across all segments.
func (p *Plan) ActionCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, s := range p.Segments {
		n += len(s.Actions)
	}
	return n
}

// Empty reports whether the plan has no action at all.
func (p *Plan) Empty() bool { return p.ActionCount() == 0 }

// Duration is the total action time, in seconds, without cooldowns.
func (p *Plan) Duration() int {
	if p == nil {
		return 0
	}
	total := 0
	for _, s := range p.Segments {
		total += s.Duration()
	}
	return total
}
