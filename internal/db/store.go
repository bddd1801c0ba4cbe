package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		startedAt REAL NOT NULL,
		endedAt REAL,
		status TEXT NOT NULL DEFAULT 'active',
		segmentsTotal INTEGER NOT NULL,
		segmentsReached INTEGER NOT NULL DEFAULT 0,
		actionsPlayed INTEGER NOT NULL DEFAULT 0,
		plannedSeconds INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS sessions_started ON sessions(startedAt);

	CREATE TABLE IF NOT EXISTS draws (
		id TEXT PRIMARY KEY,
		segment TEXT NOT NULL,
		text TEXT NOT NULL,
		textZh TEXT NOT NULL DEFAULT '',
		drawnAt REAL NOT NULL
	);
`

// Store provides access to the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database with WAL and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartSession inserts an active session and returns its id.
func (s *Store) StartSession(segmentsTotal, plannedSeconds int, at time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, startedAt, status, segmentsTotal, plannedSeconds)
		VALUES (?, ?, ?, ?, ?)
	`, id, unixFromTime(at), StatusActive, segmentsTotal, plannedSeconds)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// FinishSession closes an active session with its outcome.
func (s *Store) FinishSession(id, status string, segmentsReached, actionsPlayed int, at time.Time) error {
	res, err := s.db.Exec(`
		UPDATE sessions
		SET endedAt = ?, status = ?, segmentsReached = ?, actionsPlayed = ?
		WHERE id = ? AND status = 'active'
	`, unixFromTime(at), status, segmentsReached, actionsPlayed, id)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// AbandonActive closes sessions left active by a crashed process and
// returns how many were closed.
func (s *Store) AbandonActive(at time.Time) (int, error) {
	res, err := s.db.Exec(`
		UPDATE sessions SET endedAt = ?, status = ? WHERE status = 'active'
	`, unixFromTime(at), StatusAbandoned)
	if err != nil {
		return 0, fmt.Errorf("abandon sessions: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ActiveSession returns the most recent active session, if any.
func (s *Store) ActiveSession() (*Session, error) {
	row := s.db.QueryRow(`
		SELECT id, startedAt, endedAt, status, segmentsTotal, segmentsReached, actionsPlayed, plannedSeconds
		FROM sessions
		WHERE status = 'active'
		ORDER BY startedAt DESC
		LIMIT 1
	`)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// RecentSessions returns up to limit sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	rows, err := s.db.Query(`
		SELECT id, startedAt, endedAt, status, segmentsTotal, segmentsReached, actionsPlayed, plannedSeconds
		FROM sessions
		ORDER BY startedAt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	return out, rows.Err()
}

// RecordDraw stores a one-off draw and returns its id.
func (s *Store) RecordDraw(segment, text, textZH string, at time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO draws (id, segment, text, textZh, drawnAt) VALUES (?, ?, ?, ?, ?)
	`, id, segment, text, textZH, unixFromTime(at))
	if err != nil {
		return "", fmt.Errorf("insert draw: %w", err)
	}
	return id, nil
}

// RecentDraws returns up to limit draws, newest first.
func (s *Store) RecentDraws(limit int) ([]Draw, error) {
	rows, err := s.db.Query(`
		SELECT id, segment, text, textZh, drawnAt
		FROM draws
		ORDER BY drawnAt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query draws: %w", err)
	}
	defer rows.Close()

	var out []Draw
	for rows.Next() {
		var d Draw
		var drawnAt float64
		if err := rows.Scan(&d.ID, &d.Segment, &d.Text, &d.TextZH, &drawnAt); err != nil {
			return nil, fmt.Errorf("scan draw: %w", err)
		}
		d.DrawnAt = timeFromUnix(drawnAt)
		out = append(out, d)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var sess Session
	var startedAt float64
	var endedAt sql.NullFloat64

	if err := row.Scan(&sess.ID, &startedAt, &endedAt, &sess.Status,
		&sess.SegmentsTotal, &sess.SegmentsReached, &sess.ActionsPlayed, &sess.PlannedSeconds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	sess.StartedAt = timeFromUnix(startedAt)
	if endedAt.Valid {
		t := timeFromUnix(endedAt.Float64)
		sess.EndedAt = &t
	}
	return &sess, nil
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
