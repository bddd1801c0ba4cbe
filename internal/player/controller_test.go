package player

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
	"github.com/Thibisault/Intimacy-Coach/internal/db"
	"github.com/Thibisault/Intimacy-Coach/internal/plan"
	"github.com/Thibisault/Intimacy-Coach/internal/session"
)

type instantClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *instantClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *instantClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.now = c.now.Add(d)
	}
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

type stuckClock struct{}

func (stuckClock) Now() time.Time                       { return time.Unix(0, 0) }
func (stuckClock) After(time.Duration) <-chan time.Time { return make(chan time.Time) }

type narratorSpy struct {
	mu    sync.Mutex
	ready bool
	calls []string
}

func (n *narratorSpy) Ready() bool { return n.ready }
func (n *narratorSpy) SpeakPair(secondary, primary string, v session.Voices) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, v.Primary+":"+primary)
}
func (n *narratorSpy) Cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, "cancel")
}
func (n *narratorSpy) Pause()  {}
func (n *narratorSpy) Resume() {}

type stateLog struct {
	mu     sync.Mutex
	states []session.StateChanged
}

func (s *stateLog) OnTick(session.Tick)              {}
func (s *stateLog) OnAction(session.ActionChanged)   {}
func (s *stateLog) OnSegment(session.SegmentChanged) {}
func (s *stateLog) OnState(v session.StateChanged) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, v)
}

// waitSpeech blocks until the first action has been narrated.
func waitSpeech(t *testing.T, n *narratorSpy) {
	t.Helper()
	require.Eventually(t, func() bool {
		n.mu.Lock()
		defer n.mu.Unlock()
		return len(n.calls) >= 2
	}, time.Second, time.Millisecond)
}

func loadResolver(t *testing.T) *content.Resolver {
	t.Helper()
	d, err := content.LoadFile(filepath.Join("..", "content", "testdata", "sample.json"))
	require.NoError(t, err)
	r := content.NewResolver(d)
	t.Cleanup(r.Close)
	return r
}

// settings plays L2 (one candidate, 3 x 20 s) then SEXE (2 x 30 s).
func settings() plan.Settings {
	return plan.Settings{
		Participants: plan.Participants{P1: "Tom", P2: "Ana"},
		Sequence:     plan.Sequence{}.Add(content.Level2, 1).Add(content.Climax, 1),
		Ranges: map[content.Segment]plan.Range{
			content.Level2: {Min: 20, Max: 20},
			content.Climax: {Min: 30, Max: 30},
		},
		ActorMode: plan.ModeRandom,
	}
}

func openHistory(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var epoch = time.Date(2026, 2, 14, 22, 0, 0, 0, time.UTC)

func newController(t *testing.T, clock session.Clock, n session.Narrator, h History) *Controller {
	t.Helper()
	return New(Options{
		Settings: settings(),
		Resolver: loadResolver(t),
		Builder:  plan.NewSeededBuilder(7),
		Narrator: n,
		History:  h,
		Engine:   session.Config{Cooldown: 1, Clock: clock, Voices: session.Voices{Primary: "fr", Secondary: "zh"}},
		Now:      func() time.Time { return epoch },
	})
}

func TestStartWithoutContent(t *testing.T) {
	c := New(Options{Settings: settings(), Narrator: &narratorSpy{ready: true}})
	require.ErrorIs(t, c.Start(context.Background()), ErrContentUnavailable)
	require.False(t, c.ContentLoaded())
	require.Nil(t, c.Plan())

	_, _, err := c.Draw(content.Level1)
	require.ErrorIs(t, err, ErrContentUnavailable)
}

func TestStartEmptyPlan(t *testing.T) {
	c := newController(t, stuckClock{}, &narratorSpy{ready: true}, nil)
	_, err := c.UpdateSettings(func(s *plan.Settings) { s.Sequence = nil })
	require.NoError(t, err)
	require.ErrorIs(t, c.Start(context.Background()), session.ErrEmptyPlan)
}

func TestStartNarratorUnavailableRecordsNothing(t *testing.T) {
	h := openHistory(t)
	c := newController(t, stuckClock{}, &narratorSpy{ready: false}, h)

	require.ErrorIs(t, c.Start(context.Background()), session.ErrNarratorUnavailable)
	require.Equal(t, session.Idle, c.State())

	rows, err := h.RecentSessions(10)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestFullSessionIsRecorded(t *testing.T) {
	h := openHistory(t)
	n := &narratorSpy{ready: true}
	c := newController(t, &instantClock{now: epoch}, n, h)
	log := &stateLog{}
	c.Observe(log)

	require.NoError(t, c.Start(context.Background()))
	c.Wait()

	rows, err := h.RecentSessions(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, db.StatusFinished, rows[0].Status)
	require.Equal(t, 2, rows[0].SegmentsTotal)
	require.Equal(t, 2, rows[0].SegmentsReached)
	require.Equal(t, 5, rows[0].ActionsPlayed)
	require.Equal(t, 120, rows[0].PlannedSeconds)

	log.mu.Lock()
	defer log.mu.Unlock()
	require.Equal(t, session.ReasonStarted, log.states[0].Reason)
	require.Equal(t, session.ReasonFinished, log.states[len(log.states)-1].Reason)

	n.mu.Lock()
	defer n.mu.Unlock()
	require.Contains(t, n.calls, "fr:Tom whispers to Ana")
}

func TestStopIsRecorded(t *testing.T) {
	h := openHistory(t)
	n := &narratorSpy{ready: true}
	c := newController(t, stuckClock{}, n, h)

	require.NoError(t, c.Start(context.Background()))
	require.ErrorIs(t, c.Start(context.Background()), session.ErrAlreadyRunning)
	waitSpeech(t, n)
	c.Stop()
	c.Wait()

	rows, err := h.RecentSessions(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, db.StatusStopped, rows[0].Status)
	require.Equal(t, 1, rows[0].SegmentsReached)
	require.Equal(t, 1, rows[0].ActionsPlayed)
}

func TestToggle(t *testing.T) {
	c := newController(t, stuckClock{}, &narratorSpy{ready: true}, nil)
	ctx := context.Background()

	require.NoError(t, c.Toggle(ctx))
	require.Equal(t, session.Running, c.State())
	require.NoError(t, c.Toggle(ctx))
	require.Equal(t, session.Paused, c.State())
	require.NoError(t, c.Toggle(ctx))
	require.Equal(t, session.Running, c.State())
	c.Close()
	require.Equal(t, session.Idle, c.State())
}

func TestUpdateSettingsRebuildsPreview(t *testing.T) {
	c := newController(t, stuckClock{}, &narratorSpy{ready: true}, nil)
	require.Equal(t, 5, c.Plan().ActionCount())

	p, err := c.UpdateSettings(func(s *plan.Settings) {
		s.Sequence = s.Sequence.SetMinutes(0, 2)
	})
	require.NoError(t, err)
	require.Equal(t, 8, p.ActionCount())
	require.Same(t, p, c.Plan())
	require.Equal(t, 2.0, c.Settings().Sequence[0].Minutes)

	_, err = c.UpdateSettings(func(s *plan.Settings) { delete(s.Ranges, content.Climax) })
	require.ErrorIs(t, err, plan.ErrMissingRange)
}

func TestSettingsCopyIsIsolated(t *testing.T) {
	c := newController(t, stuckClock{}, &narratorSpy{ready: true}, nil)
	s := c.Settings()
	s.Ranges[content.Level2] = plan.Range{Min: 99, Max: 99}
	require.Equal(t, plan.Range{Min: 20, Max: 20}, c.Settings().Ranges[content.Level2])
}

func TestBuildSeededIsDeterministic(t *testing.T) {
	c := newController(t, stuckClock{}, &narratorSpy{ready: true}, nil)
	a, err := c.BuildSeeded(42)
	require.NoError(t, err)
	b, err := c.BuildSeeded(42)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDrawNarratesAndRecords(t *testing.T) {
	h := openHistory(t)
	n := &narratorSpy{ready: true}
	c := newController(t, stuckClock{}, n, h)

	a, ok, err := c.Draw(content.Level2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Tom whispers to Ana", a.Text)
	require.Zero(t, a.Duration)

	n.mu.Lock()
	require.Equal(t, []string{"cancel", "fr:Tom whispers to Ana"}, n.calls)
	n.mu.Unlock()

	draws, err := h.RecentDraws(5)
	require.NoError(t, err)
	require.Len(t, draws, 1)
	require.Equal(t, "L2", draws[0].Segment)

	_, ok, err = c.Draw(content.Level5)
	require.NoError(t, err)
	require.False(t, ok, "level 5 has no content")
}

func TestDrawStaysQuietDuringSession(t *testing.T) {
	n := &narratorSpy{ready: true}
	c := newController(t, stuckClock{}, n, nil)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()
	waitSpeech(t, n)

	n.mu.Lock()
	before := len(n.calls)
	n.mu.Unlock()

	_, ok, err := c.Draw(content.Climax)
	require.NoError(t, err)
	require.True(t, ok)

	n.mu.Lock()
	defer n.mu.Unlock()
	require.Len(t, n.calls, before)
}
