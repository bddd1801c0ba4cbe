package player

import (
	"sync"

	"github.com/Thibisault/Intimacy-Coach/internal/db"
	"github.com/Thibisault/Intimacy-Coach/internal/session"
)

// hub is a fan-out whose subscribers may be added after the engine exists.
type hub struct {
	mu  sync.RWMutex
	obs session.Observers
}

func (h *hub) add(o session.Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.obs = append(h.obs, o)
}

func (h *hub) snapshot() session.Observers {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.obs
}

func (h *hub) OnTick(t session.Tick)              { h.snapshot().OnTick(t) }
func (h *hub) OnAction(a session.ActionChanged)   { h.snapshot().OnAction(a) }
func (h *hub) OnSegment(s session.SegmentChanged) { h.snapshot().OnSegment(s) }
func (h *hub) OnState(s session.StateChanged)     { h.snapshot().OnState(s) }

// tracker keeps the numbers written to the history row.
type tracker struct {
	mu      sync.Mutex
	reached int
	actions int
	reason  session.Reason
}

func (t *tracker) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reached, t.actions, t.reason = 0, 0, ""
}

func (t *tracker) summary() (status string, segments, actions int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	status = db.StatusStopped
	if t.reason == session.ReasonFinished {
		status = db.StatusFinished
	}
	return status, t.reached, t.actions
}

func (t *tracker) OnTick(session.Tick) {}

func (t *tracker) OnAction(session.ActionChanged) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.actions++
}

func (t *tracker) OnSegment(s session.SegmentChanged) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reached = max(t.reached, s.SegmentIndex+1)
}

func (t *tracker) OnState(s session.StateChanged) {
	if s.State != session.Idle {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reason = s.Reason
}
