// Package history persists completed match computations. The matching
// core never writes here: recording is owned by the CLI layer, which
// decides what is worth keeping.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/spigell/skillmatcher/internal/matching"
)

// Record is one stored match computation.
type Record struct {
	ID          int64
	CandidateID string
	RoleID      string
	Score       float64
	Viable      bool
	CreatedAt   string
}

// Store is a SQLite-backed match history.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default history location under the user's
// home directory.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".skillmatcher", "history.db")
}

// Open opens (or creates) the history database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("history: mkdir %s: %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}

	schema := `CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		candidate_id TEXT NOT NULL,
		role_id TEXT NOT NULL,
		score REAL NOT NULL,
		viable INTEGER NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	CREATE INDEX IF NOT EXISTS idx_matches_candidate ON matches(candidate_id);
	CREATE INDEX IF NOT EXISTS idx_matches_role ON matches(role_id);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record stores one match result and returns its row id.
func (s *Store) Record(ctx context.Context, result *matching.MatchResult) (int64, error) {
	viable := 0
	if result.Viable() {
		viable = 1
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (candidate_id, role_id, score, viable) VALUES (?, ?, ?, ?)`,
		result.CandidateID, result.RoleID, result.Score, viable,
	)
	if err != nil {
		return 0, fmt.Errorf("history: insert match: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent records, optionally filtered by
// candidate and/or role id. limit <= 0 defaults to 20.
func (s *Store) List(ctx context.Context, candidateID, roleID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, candidate_id, role_id, score, viable, created_at FROM matches`
	var conds []string
	var args []any
	if candidateID != "" {
		conds = append(conds, "candidate_id = ?")
		args = append(args, candidateID)
	}
	if roleID != "" {
		conds = append(conds, "role_id = ?")
		args = append(args, roleID)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list matches: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var viable int
		if err := rows.Scan(&rec.ID, &rec.CandidateID, &rec.RoleID, &rec.Score, &viable, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan match: %w", err)
		}
		rec.Viable = viable == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}
