package narration

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Thibisault/Intimacy-Coach/internal/session"
)

// Queue speaks utterances one at a time on a worker goroutine.
type Queue struct {
	speaker Speaker
	log     *slog.Logger

	wake   chan struct{}
	closed chan struct{}
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	items   []Utterance
	paused  bool
	current *Utterance
	cut     context.CancelFunc
}

// NewQueue starts the worker. Call Close to stop it.
func NewQueue(sp Speaker, log *slog.Logger) *Queue {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	q := &Queue{
		speaker: sp,
		log:     log.With("component", "narration"),
		wake:    make(chan struct{}, 1),
		closed:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go q.work()
	return q
}

// Ready reports whether the underlying speaker can produce audio.
func (q *Queue) Ready() bool { return q.speaker != nil && q.speaker.Ready() }

// SpeakPair queues the secondary text then the primary text. Empty texts
// are skipped.
func (q *Queue) SpeakPair(secondary, primary string, v session.Voices) {
	q.mu.Lock()
	if secondary != "" {
		q.items = append(q.items, Utterance{Text: secondary, Voice: v.Secondary})
	}
	if primary != "" {
		q.items = append(q.items, Utterance{Text: primary, Voice: v.Primary})
	}
	q.mu.Unlock()
	q.nudge()
}

// Cancel drops everything queued, interrupts the current utterance and
// clears a pending pause.
func (q *Queue) Cancel() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.paused = false
	q.interrupt()
}

// Pause interrupts the current utterance and puts it back at the head of
// the queue.
func (q *Queue) Pause() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.paused = true
	if q.current != nil {
		q.items = append([]Utterance{*q.current}, q.items...)
	}
	q.interrupt()
}

func (q *Queue) Resume() {
	q.mu.Lock()
	q.paused = false
	q.mu.Unlock()
	q.nudge()
}

// Pending returns the number of utterances waiting to be spoken.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain blocks until nothing is queued or being spoken, or ctx ends.
func (q *Queue) Drain(ctx context.Context) error {
	t := time.NewTicker(20 * time.Millisecond)
	defer t.Stop()
	for {
		q.mu.Lock()
		idle := len(q.items) == 0 && q.current == nil
		q.mu.Unlock()
		if idle {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Close stops the worker and waits for it to exit.
func (q *Queue) Close() {
	q.once.Do(func() {
		q.mu.Lock()
		q.items = nil
		q.interrupt()
		q.mu.Unlock()
		close(q.closed)
	})
	<-q.done
}

// interrupt must be called with mu held.
func (q *Queue) interrupt() {
	q.current = nil
	if q.cut != nil {
		q.cut()
		q.cut = nil
	}
}

func (q *Queue) nudge() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) work() {
	defer close(q.done)
	for {
		q.mu.Lock()
		if q.paused || len(q.items) == 0 {
			q.mu.Unlock()
			select {
			case <-q.wake:
				continue
			case <-q.closed:
				return
			}
		}
		u := q.items[0]
		q.items = q.items[1:]
		ctx, cancel := context.WithCancel(context.Background())
		q.current = &u
		q.cut = cancel
		q.mu.Unlock()

		err := q.speaker.Speak(ctx, u)
		interrupted := ctx.Err() != nil

		q.mu.Lock()
		if q.current == &u {
			q.current = nil
			q.cut = nil
		}
		q.mu.Unlock()
		cancel()

		if err != nil && !interrupted {
			q.log.Warn("speech failed", "voice", u.Voice, "error", err)
		}
	}
}
