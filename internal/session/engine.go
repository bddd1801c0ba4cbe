package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Thibisault/Intimacy-Coach/internal/plan"
)

// DefaultBackThreshold is how far into an action PrevAction still moves to
// the previous action instead of restarting the current one.
const DefaultBackThreshold = 3

// Config tunes an Engine.
type Config struct {
	// Cooldown is the pause between two actions of a segment, in seconds.
	Cooldown int
	// BackThreshold is in seconds; see DefaultBackThreshold.
	BackThreshold int
	Voices        Voices
	Clock         Clock
	Observer      Observer
	Logger        *slog.Logger
}

// run is one playback of one plan.
type run struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	plan   *plan.Plan
	// wake nudges a sleeping countdown to re-check its latch conditions.
	wake chan struct{}
}

// Engine is the session state machine. Control methods are safe to call
// from any goroutine; playback itself happens on one goroutine per run.
type Engine struct {
	cfg      Config
	narrator Narrator
	log      *slog.Logger

	mu     sync.Mutex
	state  State
	intent Intent
	cursor Cursor
	cur    *run
}

// New returns an idle engine.
func New(cfg Config, narrator Narrator) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	if cfg.BackThreshold <= 0 {
		cfg.BackThreshold = DefaultBackThreshold
	}
	if cfg.Cooldown < 0 {
		cfg.Cooldown = 0
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		cfg:      cfg,
		narrator: narrator,
		log:      log.With("component", "engine"),
	}
}

// State returns the current run-state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Cursor returns the current playback position.
func (e *Engine) Cursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Plan returns the plan being played, or nil when idle.
func (e *Engine) Plan() *plan.Plan {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur == nil || e.state == Idle {
		return nil
	}
	return e.cur.plan
}

// HasNextSegment reports whether a later segment with actions exists, so
// that NextSegment would land somewhere instead of ending the session.
func (e *Engine) HasNextSegment() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasNextSegmentLocked()
}

func (e *Engine) hasNextSegmentLocked() bool {
	if e.state == Idle || e.cur == nil {
		return false
	}
	segs := e.cur.plan.Segments
	for s := e.cursor.Segment + 1; s < len(segs); s++ {
		if len(segs[s].Actions) > 0 {
			return true
		}
	}
	return false
}

// Start validates the plan and narrator and begins playback in the
// background. The session ends when ctx is cancelled, Stop is called, or
// the plan is exhausted.
func (e *Engine) Start(ctx context.Context, p *plan.Plan) error {
	e.mu.Lock()
	if e.state != Idle {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	if p.Empty() {
		e.mu.Unlock()
		return ErrEmptyPlan
	}
	if e.narrator == nil || !e.narrator.Ready() {
		e.mu.Unlock()
		return ErrNarratorUnavailable
	}
	rctx, cancel := context.WithCancel(ctx)
	r := &run{ctx: rctx, cancel: cancel, done: make(chan struct{}), plan: p, wake: make(chan struct{}, 1)}
	e.cur = r
	e.state = Running
	e.intent = NoIntent
	e.cursor = Cursor{}
	e.mu.Unlock()

	e.log.Info("session started", "segments", p.Len(), "actions", p.ActionCount())
	e.cfg.Observer.OnState(StateChanged{State: Running, Reason: ReasonStarted})
	go e.loop(r)
	return nil
}

// Run is the blocking form of Start.
func (e *Engine) Run(ctx context.Context, p *plan.Plan) error {
	if err := e.Start(ctx, p); err != nil {
		return err
	}
	e.Wait()
	return nil
}

// Done is closed when the current run's goroutine exits. When no run was
// ever started the returned channel is already closed.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur == nil {
		c := make(chan struct{})
		close(c)
		return c
	}
	return e.cur.done
}

// Wait blocks until the current run's goroutine exits.
func (e *Engine) Wait() { <-e.Done() }

// Pause suspends the countdown and narration. No-op unless running.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.state != Running {
		e.mu.Unlock()
		return
	}
	e.state = Paused
	r := e.cur
	e.mu.Unlock()

	e.narrator.Pause()
	e.log.Debug("session paused")
	e.cfg.Observer.OnState(StateChanged{State: Paused, Reason: ReasonPaused})
	r.nudge()
}

// Resume continues a paused session. No-op unless paused.
func (e *Engine) Resume() {
	e.mu.Lock()
	if e.state != Paused {
		e.mu.Unlock()
		return
	}
	e.state = Running
	r := e.cur
	e.mu.Unlock()

	e.narrator.Resume()
	e.log.Debug("session resumed")
	e.cfg.Observer.OnState(StateChanged{State: Running, Reason: ReasonResumed})
	r.nudge()
}

// Stop ends the session from any state. Idempotent.
func (e *Engine) Stop() {
	e.end(ReasonStopped, nil)
}

// Signal posts a navigation intent. A newer intent replaces an unconsumed
// one. Intents are ignored while idle; StopSession acts immediately.
// NextSegment is ignored when no later segment has actions.
func (e *Engine) Signal(i Intent) {
	if i == StopSession {
		e.Stop()
		return
	}
	if i == NoIntent {
		return
	}
	e.mu.Lock()
	if e.state == Idle {
		e.mu.Unlock()
		return
	}
	if i == NextSegment && !e.hasNextSegmentLocked() {
		e.mu.Unlock()
		e.log.Debug("next segment ignored on last segment")
		return
	}
	e.intent = i
	r := e.cur
	e.mu.Unlock()
	r.nudge()
}

// end moves to Idle. When only is set, the transition happens only if that
// run is still the current one.
func (e *Engine) end(reason Reason, only *run) {
	e.mu.Lock()
	if e.state == Idle || (only != nil && e.cur != only) {
		e.mu.Unlock()
		return
	}
	r := e.cur
	e.state = Idle
	e.intent = NoIntent
	e.cursor = Cursor{}
	e.mu.Unlock()

	r.cancel()
	e.narrator.Cancel()
	e.log.Info("session ended", "reason", reason)
	e.cfg.Observer.OnState(StateChanged{State: Idle, Reason: reason})
}

func (r *run) nudge() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *run) drainWake() {
	select {
	case <-r.wake:
	default:
	}
}

func (e *Engine) takeIntent() Intent {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.intent
	e.intent = NoIntent
	return i
}

func (e *Engine) paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == Paused
}

func (e *Engine) setCursor(r *run, c Cursor) {
	e.mu.Lock()
	if e.cur == r && e.state != Idle {
		e.cursor = c
	}
	e.mu.Unlock()
}

// loop walks the plan segment by segment, action by action.
func (e *Engine) loop(r *run) {
	defer close(r.done)

	p := r.plan
	seg, act := 0, 0
	entered := -1
	for seg < len(p.Segments) {
		if r.ctx.Err() != nil {
			e.end(ReasonStopped, r)
			return
		}
		sp := p.Segments[seg]
		if len(sp.Actions) == 0 {
			seg, act = seg+1, 0
			continue
		}
		if seg != entered {
			entered = seg
			e.cfg.Observer.OnSegment(SegmentChanged{Segment: sp.Segment, SegmentIndex: seg, SegmentCount: len(p.Segments)})
		}

		a := sp.Actions[act]
		e.setCursor(r, Cursor{Segment: seg, Action: act})
		e.cfg.Observer.OnAction(ActionChanged{
			Segment:      sp.Segment,
			SegmentIndex: seg,
			ActionIndex:  act,
			ActionCount:  len(sp.Actions),
			Text:         a.Text,
			TextZH:       a.TextZH,
			Actor:        a.Actor,
			Image:        a.Image,
			Duration:     a.Duration,
		})
		e.narrator.Cancel()
		e.narrator.SpeakPair(a.TextZH, a.Text, e.cfg.Voices)

		sig, elapsed := e.countdown(r, seg, act, a.Duration, e.timeline(sp, act, false))
		switch sig {
		case StopSession:
			e.end(ReasonStopped, r)
			return
		case PrevAction:
			if elapsed <= e.cfg.BackThreshold {
				seg, act = previous(p, seg, act)
			}
			continue
		case NextSegment:
			seg, act = seg+1, 0
			continue
		}

		if e.cfg.Cooldown > 0 && act < len(sp.Actions)-1 {
			sig, _ = e.countdown(r, seg, act, e.cfg.Cooldown, e.timeline(sp, act, true))
			switch sig {
			case StopSession:
				e.end(ReasonStopped, r)
				return
			case PrevAction:
				continue
			case NextSegment:
				seg, act = seg+1, 0
				continue
			}
		}

		act++
		if act >= len(sp.Actions) {
			seg, act = seg+1, 0
		}
	}
	e.end(ReasonFinished, r)
}

// frame locates a countdown inside its segment's timeline. Segment time is
// derived from the cursor position, never carried across jumps.
type frame struct {
	base     int
	total    int
	cooldown bool
}

func (e *Engine) timeline(sp plan.SegmentPlan, act int, cooldown bool) frame {
	n := len(sp.Actions)
	f := frame{total: sp.Duration() + e.cfg.Cooldown*max(0, n-1), cooldown: cooldown}
	for i := 0; i < act; i++ {
		f.base += sp.Actions[i].Duration
	}
	f.base += e.cfg.Cooldown * act
	if cooldown {
		f.base += sp.Actions[act].Duration
	}
	return f
}

// countdown runs duration whole-second ticks scheduled from a fixed anchor.
// It returns early with the intent consumed at a latch point, or
// StopSession when the run is cancelled.
func (e *Engine) countdown(r *run, seg, act, duration int, f frame) (Intent, int) {
	clock := e.cfg.Clock
	anchor := clock.Now()
	tick := 0
	e.emitTick(tick, duration, f)

	for tick < duration {
		r.drainWake()
		if r.ctx.Err() != nil {
			return StopSession, tick
		}
		if e.paused() {
			for e.paused() {
				select {
				case <-r.wake:
				case <-r.ctx.Done():
					return StopSession, tick
				}
			}
			anchor = clock.Now().Add(-time.Duration(tick) * time.Second)
			continue
		}
		if i := e.takeIntent(); i != NoIntent {
			e.log.Debug("intent consumed", "intent", i, "segment", seg, "action", act, "elapsed", tick)
			return i, tick
		}

		wait := anchor.Add(time.Duration(tick+1) * time.Second).Sub(clock.Now())
		select {
		case <-clock.After(wait):
			tick++
			if !f.cooldown {
				e.setCursor(r, Cursor{Segment: seg, Action: act, Elapsed: tick})
			}
			e.emitTick(tick, duration, f)
		case <-r.wake:
		case <-r.ctx.Done():
			return StopSession, tick
		}
	}
	return NoIntent, tick
}

func (e *Engine) emitTick(tick, duration int, f frame) {
	e.cfg.Observer.OnTick(Tick{
		Remaining:        duration - tick,
		Total:            duration,
		SegmentRemaining: max(0, f.total-f.base-tick),
		SegmentTotal:     f.total,
		Cooldown:         f.cooldown,
	})
}

// previous returns the position before (seg, act), crossing into the last
// action of the nearest earlier non-empty segment. At the very first action
// the position is unchanged.
func previous(p *plan.Plan, seg, act int) (int, int) {
	if act > 0 {
		return seg, act - 1
	}
	for s := seg - 1; s >= 0; s-- {
		if n := len(p.Segments[s].Actions); n > 0 {
			return s, n - 1
		}
	}
	return seg, act
}
