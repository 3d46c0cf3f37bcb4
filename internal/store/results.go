// Package store persists finished match results in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Result is one finished session. Winner uses the game's team numbering
// with -1 for a tie.
type Result struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"sessionId"`
	Nickname   string    `json:"nickname"`
	Red        int       `json:"red"`
	Purple     int       `json:"purple"`
	Winner     int       `json:"winner"`
	Ticks      uint32    `json:"ticks"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// MaxRecent bounds Recent regardless of the requested limit.
const MaxRecent = 200

type ResultStore struct {
	db *sql.DB
}

// Open creates the database file and schema if needed. Use ":memory:" for a
// throwaway store.
func Open(path string) (*ResultStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	// One writer; rooms record from their own goroutines.
	db.SetMaxOpenConns(1)

	s := &ResultStore{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *ResultStore) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		nickname TEXT NOT NULL,
		red INTEGER NOT NULL,
		purple INTEGER NOT NULL,
		winner INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_finished ON results(finished_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create results table: %w", err)
	}
	return nil
}

// Record inserts r and returns its row id.
func (s *ResultStore) Record(ctx context.Context, r Result) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO results (session_id, nickname, red, purple, winner, ticks, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Nickname, r.Red, r.Purple, r.Winner, r.Ticks,
		r.StartedAt.UnixMilli(), r.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("result id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit results, newest first.
func (s *ResultStore) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 || limit > MaxRecent {
		limit = MaxRecent
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, nickname, red, purple, winner, ticks, started_at, finished_at
		 FROM results ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Nickname, &r.Red, &r.Purple,
			&r.Winner, &r.Ticks, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.StartedAt = time.UnixMilli(started).UTC()
		r.FinishedAt = time.UnixMilli(finished).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *ResultStore) Close() error {
	return s.db.Close()
}
