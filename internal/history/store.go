// Package history persists analysis runs to a SQLite database so past
// comparisons can be reviewed and reproduced.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"cagestat/internal/filelock"
	"cagestat/internal/pairstat"
)

//go:embed schema.sql
var schemaSQL string

// Run is one recorded analysis invocation.
type Run struct {
	ID        string
	CreatedAt time.Time
	StorePath string
	Agg       string
	Days      []string
	Subjects  int
	Alpha     float64
	Results   []pairstat.Result
}

// Store manages the SQLite run-history database.
type Store struct {
	db   *sql.DB
	lock *filelock.FileLock
}

// NewStore opens (creating if needed) the history database at dbPath.
// ":memory:" is accepted for tests.
func NewStore(dbPath string) (*Store, error) {
	var lock *filelock.FileLock
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		lock = filelock.New(dbPath + ".lock")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, lock: lock}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts a new run and returns its generated ID. Writes are
// serialized across processes with an advisory lock next to the database
// file.
func (s *Store) RecordRun(ctx context.Context, run Run) (string, error) {
	if s.lock != nil {
		if err := s.lock.Lock(); err != nil {
			return "", err
		}
		defer s.lock.Unlock()
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	resultsJSON, err := json.Marshal(run.Results)
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, store_path, agg, days, n_subjects, alpha, results)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.StorePath, run.Agg,
		strings.Join(run.Days, ","), run.Subjects, run.Alpha, string(resultsJSON))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	return run.ID, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// below returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, created_at, store_path, agg, days, n_subjects, alpha, results
	          FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var days, resultsJSON string
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.StorePath, &run.Agg,
			&days, &run.Subjects, &run.Alpha, &resultsJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if days != "" {
			run.Days = strings.Split(days, ",")
		}
		if err := json.Unmarshal([]byte(resultsJSON), &run.Results); err != nil {
			return nil, fmt.Errorf("decode results for run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
