// Package audit keeps a local SQLite log of extraction calls. Only metadata is
// stored: engine, fallback reason, sizes and timing. Input text and task
// content never reach the database.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vthunder/flowpilot/internal/task"
)

// Entry is one recorded extraction
type Entry struct {
	ID             string
	CreatedAt      time.Time
	Engine         string
	FallbackReason string
	InputChars     int
	Tasks          int
	Clarifications int
	Duration       time.Duration
}

// NewEntry summarizes a result
func NewEntry(res *task.ExtractionResult, inputChars int, elapsed time.Duration) Entry {
	return Entry{
		Engine:         res.Engine,
		FallbackReason: res.FallbackReason,
		InputChars:     inputChars,
		Tasks:          len(res.Tasks),
		Clarifications: len(res.Clarifications),
		Duration:       elapsed,
	}
}

// Stats aggregates the log
type Stats struct {
	Total      int            `json:"total"`
	ByEngine   map[string]int `json:"by_engine"`
	ByFallback map[string]int `json:"by_fallback,omitempty"`
}

// Store wraps the SQLite database connection
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the audit database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS extractions (
			id              TEXT PRIMARY KEY,
			created_at      DATETIME NOT NULL,
			engine          TEXT NOT NULL,
			fallback_reason TEXT NOT NULL DEFAULT '',
			input_chars     INTEGER NOT NULL,
			tasks           INTEGER NOT NULL,
			clarifications  INTEGER NOT NULL,
			duration_ms     INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_extractions_created ON extractions(created_at);
	`)
	return err
}

// Path returns the database file path
func (s *Store) Path() string { return s.path }

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts an entry, filling ID and CreatedAt when unset
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO extractions (id, created_at, engine, fallback_reason, input_chars, tasks, clarifications, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.CreatedAt, e.Engine, e.FallbackReason, e.InputChars, e.Tasks, e.Clarifications, e.Duration.Milliseconds())
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record extraction: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, engine, fallback_reason, input_chars, tasks, clarifications, duration_ms
		FROM extractions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query extractions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ms int64
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Engine, &e.FallbackReason,
			&e.InputChars, &e.Tasks, &e.Clarifications, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats counts entries per engine and per fallback reason
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{ByEngine: map[string]int{}, ByFallback: map[string]int{}}

	rows, err := s.db.QueryContext(ctx, `
		SELECT engine, fallback_reason, COUNT(*)
		FROM extractions
		GROUP BY engine, fallback_reason
	`)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var engine, reason string
		var n int
		if err := rows.Scan(&engine, &reason, &n); err != nil {
			return Stats{}, fmt.Errorf("failed to scan stats: %w", err)
		}
		st.Total += n
		st.ByEngine[engine] += n
		if reason != "" {
			st.ByFallback[reason] += n
		}
	}
	return st, rows.Err()
}
