// Package player ties content, plan building, the session engine, narration
// and history together behind one controller.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
	"github.com/Thibisault/Intimacy-Coach/internal/plan"
	"github.com/Thibisault/Intimacy-Coach/internal/session"
)

// ErrContentUnavailable is returned when no content library is loaded.
var ErrContentUnavailable = errors.New("content unavailable")

// History records sessions and draws. *db.Store implements it.
type History interface {
	StartSession(segmentsTotal, plannedSeconds int, at time.Time) (string, error)
	FinishSession(id, status string, segmentsReached, actionsPlayed int, at time.Time) error
	RecordDraw(segment, text, textZH string, at time.Time) (string, error)
}

// Options configure a Controller. Resolver, Narrator and History may be nil.
type Options struct {
	Settings plan.Settings
	Resolver *content.Resolver
	Builder  *plan.Builder
	Narrator session.Narrator
	History  History
	// Engine carries cooldown, back threshold, voices and clock. Its
	// Observer and Logger fields are overridden.
	Engine session.Config
	Logger *slog.Logger
	Now    func() time.Time
}

// Controller is the single owner of playback state.
type Controller struct {
	resolver *content.Resolver
	builder  *plan.Builder
	narrator session.Narrator
	history  History
	voices   session.Voices
	log      *slog.Logger
	now      func() time.Time

	hub     *hub
	tracker *tracker
	engine  *session.Engine

	mu       sync.Mutex
	settings plan.Settings
	plan     *plan.Plan
	bookkeep chan struct{}
}

// New builds a controller and an initial preview plan.
func New(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.Builder == nil {
		opts.Builder = plan.NewBuilder(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Controller{
		resolver: opts.Resolver,
		builder:  opts.Builder,
		narrator: opts.Narrator,
		history:  opts.History,
		voices:   opts.Engine.Voices,
		log:      log,
		now:      opts.Now,
		hub:      &hub{},
		tracker:  &tracker{},
		settings: opts.Settings,
	}
	cfg := opts.Engine
	cfg.Observer = session.Observers{c.tracker, c.hub}
	cfg.Logger = log
	c.engine = session.New(cfg, opts.Narrator)

	if c.resolver != nil {
		if _, err := c.Rebuild(); err != nil {
			log.Warn("initial plan build failed", "error", err)
		}
	}
	return c
}

// Observe registers o for engine notifications.
func (c *Controller) Observe(o session.Observer) { c.hub.add(o) }

// Settings returns a copy of the current settings.
func (c *Controller) Settings() plan.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSettings(c.settings)
}

// ContentLoaded reports whether a content library is available.
func (c *Controller) ContentLoaded() bool { return c.resolver != nil }

// Plan returns the last built plan, possibly nil.
func (c *Controller) Plan() *plan.Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan
}

// Rebuild draws a fresh plan from the current settings.
func (c *Controller) Rebuild() (*plan.Plan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuildLocked()
}

func (c *Controller) rebuildLocked() (*plan.Plan, error) {
	if c.resolver == nil {
		return nil, ErrContentUnavailable
	}
	p, err := c.builder.Build(c.settings, c.resolver)
	if err != nil {
		return nil, fmt.Errorf("build plan: %w", err)
	}
	c.plan = p
	return p, nil
}

// BuildSeeded builds a plan from the current settings with a deterministic
// builder. The stored preview is left alone.
func (c *Controller) BuildSeeded(seed uint64) (*plan.Plan, error) {
	if c.resolver == nil {
		return nil, ErrContentUnavailable
	}
	p, err := plan.NewSeededBuilder(seed).Build(c.Settings(), c.resolver)
	if err != nil {
		return nil, fmt.Errorf("build plan: %w", err)
	}
	return p, nil
}

// UpdateSettings applies fn to a copy of the settings, stores it and
// rebuilds the preview plan. The plan being played is not affected.
func (c *Controller) UpdateSettings(fn func(*plan.Settings)) (*plan.Plan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := cloneSettings(c.settings)
	fn(&s)
	c.settings = s
	if c.resolver == nil {
		return nil, nil
	}
	return c.rebuildLocked()
}

// Start builds a fresh plan and plays it.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolver == nil {
		return ErrContentUnavailable
	}
	if c.engine.State() != session.Idle {
		return session.ErrAlreadyRunning
	}
	p, err := c.rebuildLocked()
	if err != nil {
		return err
	}
	if p.Empty() {
		return session.ErrEmptyPlan
	}

	if c.bookkeep != nil {
		<-c.bookkeep
	}
	c.tracker.reset()
	if err := c.engine.Start(ctx, p); err != nil {
		return err
	}
	done := c.engine.Done()

	var id string
	if c.history != nil {
		id, err = c.history.StartSession(p.Len(), p.Duration(), c.now())
		if err != nil {
			c.log.Warn("record session start", "error", err)
		}
	}

	finished := make(chan struct{})
	c.bookkeep = finished
	go func() {
		defer close(finished)
		<-done
		if id == "" {
			return
		}
		status, segs, acts := c.tracker.summary()
		if err := c.history.FinishSession(id, status, segs, acts, c.now()); err != nil {
			c.log.Warn("record session end", "session", id, "error", err)
		}
	}()
	return nil
}

// Wait blocks until the last started session has ended and been recorded.
func (c *Controller) Wait() {
	c.mu.Lock()
	ch := c.bookkeep
	c.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (c *Controller) Pause()                  { c.engine.Pause() }
func (c *Controller) Resume()                 { c.engine.Resume() }
func (c *Controller) Stop()                   { c.engine.Stop() }
func (c *Controller) Signal(i session.Intent) { c.engine.Signal(i) }
func (c *Controller) State() session.State    { return c.engine.State() }
func (c *Controller) Cursor() session.Cursor  { return c.engine.Cursor() }

// HasNextSegment reports whether NextSegment would move to another segment.
func (c *Controller) HasNextSegment() bool { return c.engine.HasNextSegment() }

// Toggle starts when idle, pauses when running and resumes when paused.
func (c *Controller) Toggle(ctx context.Context) error {
	switch c.engine.State() {
	case session.Running:
		c.engine.Pause()
	case session.Paused:
		c.engine.Resume()
	default:
		return c.Start(ctx)
	}
	return nil
}

// Draw picks one random action of seg with the configured filters,
// narrates it unless a session is playing, and records it. ok is false
// when nothing is eligible.
func (c *Controller) Draw(seg content.Segment) (a plan.Action, ok bool, err error) {
	if c.resolver == nil {
		return plan.Action{}, false, ErrContentUnavailable
	}
	s := c.Settings()
	a, ok = c.builder.DrawOne(s, c.resolver, seg, s.Filters)
	if !ok {
		return a, false, nil
	}

	if c.narrator != nil && c.narrator.Ready() && c.engine.State() == session.Idle {
		c.narrator.Cancel()
		c.narrator.SpeakPair(a.TextZH, a.Text, c.voices)
	}
	if c.history != nil {
		if _, err := c.history.RecordDraw(string(seg), a.Text, a.TextZH, c.now()); err != nil {
			c.log.Warn("record draw", "error", err)
		}
	}
	return a, true, nil
}

// Close stops playback and waits for bookkeeping.
func (c *Controller) Close() {
	c.engine.Stop()
	c.Wait()
}

func cloneSettings(s plan.Settings) plan.Settings {
	out := s
	out.Sequence = append(plan.Sequence(nil), s.Sequence...)
	out.Ranges = make(map[content.Segment]plan.Range, len(s.Ranges))
	for k, v := range s.Ranges {
		out.Ranges[k] = v
	}
	return out
}
