// Package history persists run outcomes to a local sqlite database so
// past conversions can be inspected after the fact.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/remaster/internal/plan"
)

//go:embed sql/schema.sql
var schemaSQL string

// Run is one recorded conversion run.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	DestRoot   string
	Codec      string
	Completed  int
	Skipped    int
	Failed     int
}

// UnitRecord is one recorded work unit outcome.
type UnitRecord struct {
	SourcePath string
	TargetPath string
	Status     plan.Status
}

// Store persists runs and their unit outcomes.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the history database location under the user
// cache directory.
func DefaultPath() string {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "remaster-history.db"
	}
	return filepath.Join(cache, "remaster", "history.db")
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts a run and its unit outcomes in one transaction.
func (s *Store) RecordRun(run *Run, units []*plan.WorkUnit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
		INSERT INTO runs (started_at, finished_at, dest_root, codec, completed, skipped, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt, run.FinishedAt, run.DestRoot, run.Codec,
		run.Completed, run.Skipped, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	run.ID = id

	for _, unit := range units {
		if _, err := tx.Exec(`
			INSERT INTO run_units (run_id, source_path, target_path, status)
			VALUES (?, ?, ?, ?)`,
			id, unit.Source.Filepath, unit.TargetPath, string(unit.Status),
		); err != nil {
			return fmt.Errorf("insert run unit: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, dest_root, codec, completed, skipped, failed
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.DestRoot,
			&r.Codec, &r.Completed, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunUnits returns the unit outcomes recorded for a run.
func (s *Store) RunUnits(runID int64) ([]*UnitRecord, error) {
	rows, err := s.db.Query(`
		SELECT source_path, target_path, status
		FROM run_units WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run units: %w", err)
	}
	defer rows.Close()

	var units []*UnitRecord
	for rows.Next() {
		u := &UnitRecord{}
		var status string
		if err := rows.Scan(&u.SourcePath, &u.TargetPath, &status); err != nil {
			return nil, fmt.Errorf("scan run unit: %w", err)
		}
		u.Status = plan.Status(status)
		units = append(units, u)
	}
	return units, rows.Err()
}
