package session

import "github.com/Thibisault/Intimacy-Coach/internal/content"

// Tick is emitted at the start of a countdown and after every second.
type Tick struct {
	Remaining        int
	Total            int
	SegmentRemaining int
	SegmentTotal     int
	// Cooldown marks the text-less pause between two actions.
	Cooldown bool
}

// ActionChanged is emitted when an action starts (or restarts).
type ActionChanged struct {
	Segment      content.Segment
	SegmentIndex int
	ActionIndex  int
	ActionCount  int
	Text         string
	TextZH       string
	Actor        content.Actor
	Image        string
	Duration     int
}

// SegmentChanged is emitted when playback enters a segment.
type SegmentChanged struct {
	Segment      content.Segment
	SegmentIndex int
	SegmentCount int
}

// StateChanged is emitted on every run-state transition.
type StateChanged struct {
	State  State
	Reason Reason
}

// Observer receives engine notifications. Tick, action and segment events
// come from the engine goroutine; state changes may also come from the
// goroutine calling Pause, Resume or Stop, so implementations must be safe
// for concurrent use.
type Observer interface {
	OnTick(Tick)
	OnAction(ActionChanged)
	OnSegment(SegmentChanged)
	OnState(StateChanged)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) OnTick(Tick)              {}
func (NopObserver) OnAction(ActionChanged)   {}
func (NopObserver) OnSegment(SegmentChanged) {}
func (NopObserver) OnState(StateChanged)     {}

// Observers fans notifications out in order.
type Observers []Observer

func (o Observers) OnTick(t Tick) {
	for _, v := range o {
		v.OnTick(t)
	}
}

func (o Observers) OnAction(a ActionChanged) {
	for _, v := range o {
		v.OnAction(a)
	}
}

func (o Observers) OnSegment(s SegmentChanged) {
	for _, v := range o {
		v.OnSegment(s)
	}
}

func (o Observers) OnState(s StateChanged) {
	for _, v := range o {
		v.OnState(s)
	}
}
