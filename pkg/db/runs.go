package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dtnitsch/blog-migrate/models"
)

// Run represents one localize invocation
type Run struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt *time.Time
	Posts      int
	Downloaded int
	Cached     int
	Failed     int
}

// FetchAttempt is one GET issued against the CDN.
type FetchAttempt struct {
	RunID      string
	AssetDir   string
	Identifier string
	URL        string
	Attempt    int
	StatusCode int
	ErrorType  string
	Success    bool
	SizeBytes  int64
}

// StartRun inserts a new run row.
func (db *DB) StartRun(runID string) error {
	_, err := db.Exec("INSERT INTO runs (run_id) VALUES (?)", runID)
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

// FinishRun stores the final counts of a run and marks it finished.
func (db *DB) FinishRun(runID string, summary models.LocalizeSummary) error {
	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = CURRENT_TIMESTAMP, posts = ?, downloaded = ?, cached = ?, failed = ?
		WHERE run_id = ?
	`, summary.Posts, summary.Downloaded, summary.Cached, summary.Failed, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// InterruptRun stores the counts reached by a run that stopped early.
// finished_at stays NULL.
func (db *DB) InterruptRun(runID string, summary models.LocalizeSummary) error {
	_, err := db.Exec(`
		UPDATE runs
		SET posts = ?, downloaded = ?, cached = ?, failed = ?
		WHERE run_id = ?
	`, summary.Posts, summary.Downloaded, summary.Cached, summary.Failed, runID)
	if err != nil {
		return fmt.Errorf("failed to record interrupted run: %w", err)
	}
	return nil
}

// RecordAttempt records a fetch attempt in fetch_attempts.
func (db *DB) RecordAttempt(a FetchAttempt) error {
	_, err := db.Exec(`
		INSERT INTO fetch_attempts (run_id, asset_dir, identifier, url, attempt, status_code, error_type, success, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.RunID, a.AssetDir, a.Identifier, a.URL, a.Attempt, a.StatusCode, NewNullString(a.ErrorType), a.Success, a.SizeBytes)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// ListRuns retrieves runs ordered by most recent first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, started_at, finished_at, posts, downloaded, cached, failed
		FROM runs
		ORDER BY started_at DESC, rowid DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.RunID, &r.StartedAt, &finished, &r.Posts, &r.Downloaded, &r.Cached, &r.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetRun returns a single run by id.
func (db *DB) GetRun(runID string) (*Run, error) {
	var r Run
	var finished sql.NullTime
	err := db.QueryRow(`
		SELECT run_id, started_at, finished_at, posts, downloaded, cached, failed
		FROM runs WHERE run_id = ?
	`, runID).Scan(&r.RunID, &r.StartedAt, &finished, &r.Posts, &r.Downloaded, &r.Cached, &r.Failed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if finished.Valid {
		t := finished.Time
		r.FinishedAt = &t
	}
	return &r, nil
}

// ListAttempts returns every fetch attempt of a run in the order they were made.
func (db *DB) ListAttempts(runID string) ([]FetchAttempt, error) {
	rows, err := db.Query(`
		SELECT run_id, asset_dir, identifier, url, attempt, COALESCE(status_code, 0), COALESCE(error_type, ''), success, size_bytes
		FROM fetch_attempts
		WHERE run_id = ?
		ORDER BY attempt_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []FetchAttempt
	for rows.Next() {
		var a FetchAttempt
		if err := rows.Scan(&a.RunID, &a.AssetDir, &a.Identifier, &a.URL, &a.Attempt, &a.StatusCode, &a.ErrorType, &a.Success, &a.SizeBytes); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// AttemptCount returns how many fetch attempts were ever made for one identifier.
func (db *DB) AttemptCount(assetDir, identifier string) (int, error) {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM fetch_attempts WHERE asset_dir = ? AND identifier = ?
	`, assetDir, identifier).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return n, nil
}

// NewNullString converts an empty string to a NULL column value.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
