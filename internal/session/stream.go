package session

import "sync"

// Stream is an Observer that forwards notifications onto a channel for a
// single consumer such as the TUI event loop. Ticks are dropped when the
// buffer is full; the other events wait for room until Close.
type Stream struct {
	ch   chan any
	done chan struct{}
	once sync.Once
}

// NewStream returns a Stream with the given buffer size.
func NewStream(buf int) *Stream {
	if buf < 1 {
		buf = 1
	}
	return &Stream{ch: make(chan any, buf), done: make(chan struct{})}
}

// Events yields Tick, ActionChanged, SegmentChanged and StateChanged values.
func (s *Stream) Events() <-chan any { return s.ch }

// Done is closed by Close.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Close releases blocked senders. The events channel itself stays open.
func (s *Stream) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Stream) OnTick(t Tick) {
	select {
	case s.ch <- t:
	default:
	}
}

func (s *Stream) OnAction(a ActionChanged)   { s.send(a) }
func (s *Stream) OnSegment(v SegmentChanged) { s.send(v) }
func (s *Stream) OnState(v StateChanged)     { s.send(v) }

func (s *Stream) send(v any) {
	select {
	case s.ch <- v:
	case <-s.done:
	}
}
