package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// openTestStore creates a store in a temp dir.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

var base = time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)

func TestSessionLifecycle(t *testing.T) {
	store := openTestStore(t)

	id, err := store.StartSession(6, 1140, base)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	active, err := store.ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession: %v", err)
	}
	if active == nil || active.ID != id {
		t.Fatalf("active session = %+v, want %s", active, id)
	}
	if active.Status != StatusActive || active.EndedAt != nil {
		t.Errorf("unexpected active row %+v", active)
	}
	if active.Duration() != 0 {
		t.Errorf("active duration = %v, want 0", active.Duration())
	}

	end := base.Add(17 * time.Minute)
	if err := store.FinishSession(id, StatusFinished, 6, 41, end); err != nil {
		t.Fatalf("FinishSession: %v", err)
	}

	active, err = store.ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession: %v", err)
	}
	if active != nil {
		t.Errorf("expected no active session, got %q", active.ID)
	}

	sessions, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	s := sessions[0]
	if s.Status != StatusFinished || s.SegmentsTotal != 6 || s.SegmentsReached != 6 || s.ActionsPlayed != 41 || s.PlannedSeconds != 1140 {
		t.Errorf("unexpected row %+v", s)
	}
	if s.Duration() != 17*time.Minute {
		t.Errorf("duration = %v, want 17m", s.Duration())
	}
}

func TestFinishSessionTwice(t *testing.T) {
	store := openTestStore(t)

	id, _ := store.StartSession(1, 60, base)
	if err := store.FinishSession(id, StatusStopped, 1, 2, base.Add(time.Minute)); err != nil {
		t.Fatalf("FinishSession: %v", err)
	}
	err := store.FinishSession(id, StatusFinished, 1, 2, base.Add(2*time.Minute))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("second finish err = %v, want ErrNotFound", err)
	}
	if err := store.FinishSession("missing", StatusFinished, 0, 0, base); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestRecentSessionsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	var ids []string
	for i := range 3 {
		id, err := store.StartSession(1, 60, base.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	sessions, err := store.RecentSessions(2)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != ids[2] || sessions[1].ID != ids[1] {
		t.Errorf("order = %s, %s", sessions[0].ID, sessions[1].ID)
	}
}

func TestAbandonActive(t *testing.T) {
	store := openTestStore(t)

	store.StartSession(2, 120, base)
	store.StartSession(2, 120, base.Add(time.Minute))
	done, _ := store.StartSession(2, 120, base.Add(2*time.Minute))
	store.FinishSession(done, StatusFinished, 2, 4, base.Add(5*time.Minute))

	n, err := store.AbandonActive(base.Add(time.Hour))
	if err != nil {
		t.Fatalf("AbandonActive: %v", err)
	}
	if n != 2 {
		t.Errorf("abandoned %d, want 2", n)
	}
	if sess, _ := store.ActiveSession(); sess != nil {
		t.Errorf("still active: %q", sess.ID)
	}
}

func TestDraws(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.RecordDraw("L1", "Tom embrasse Ana", "汤姆亲吻安娜", base); err != nil {
		t.Fatalf("RecordDraw: %v", err)
	}
	if _, err := store.RecordDraw("SEXE", "Position latérale", "", base.Add(time.Second)); err != nil {
		t.Fatalf("RecordDraw: %v", err)
	}

	draws, err := store.RecentDraws(10)
	if err != nil {
		t.Fatalf("RecentDraws: %v", err)
	}
	if len(draws) != 2 {
		t.Fatalf("got %d draws, want 2", len(draws))
	}
	if draws[0].Segment != "SEXE" || draws[1].TextZH != "汤姆亲吻安娜" {
		t.Errorf("unexpected draws %+v", draws)
	}
	if !draws[1].DrawnAt.Equal(base) {
		t.Errorf("drawnAt = %v, want %v", draws[1].DrawnAt, base)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	id, _ := store.StartSession(3, 180, base)
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	sess, err := store.ActiveSession()
	if err != nil || sess == nil || sess.ID != id {
		t.Fatalf("after reopen got %+v, %v", sess, err)
	}
}

func TestTimeFromUnix(t *testing.T) {
	ts := 1700000000.5
	got := timeFromUnix(ts)

	if got.Unix() != 1700000000 {
		t.Errorf("seconds = %d, want 1700000000", got.Unix())
	}
	if got.Nanosecond() != 500000000 {
		t.Errorf("nanos = %d, want 500000000", got.Nanosecond())
	}
	if back := unixFromTime(got); back != ts {
		t.Errorf("unixFromTime = %v, want %v", back, ts)
	}
}
