// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a log of merge runs: which files went in, in what
// order, how many pages came out, and why a run failed.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docstitch/pkg/types"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"

	defaultLimit = 20
)

// Status is the outcome of a merge run.
type Status string

const (
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Run is one recorded merge.
type Run struct {
	ID        string              `json:"id" yaml:"id"`
	Output    string              `json:"output" yaml:"output"`
	Files     []string            `json:"files" yaml:"files"`
	Sources   []types.SourcePages `json:"sources,omitempty" yaml:"sources,omitempty"`
	Pages     int                 `json:"pages" yaml:"pages"`
	Status    Status              `json:"status" yaml:"status"`
	Error     string              `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  time.Duration       `json:"duration" yaml:"duration"`
	CreatedAt time.Time           `json:"created_at" yaml:"created_at"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Store persists runs in SQLite or PostgreSQL.
type Store struct {
	db     *sql.DB
	driver string
}

// Open opens the store described by cfg and creates the schema if needed.
// An empty driver defaults to sqlite3; for sqlite3 the DSN is a file path
// whose directory is created.
func Open(cfg types.HistoryConfig) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = driverSQLite
	}

	var dsn string
	switch driver {
	case driverSQLite:
		path := cfg.DSN
		if path == "" {
			path = "docstitch.db"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL"
	case driverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("postgres history needs a DSN")
		}
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("unknown history driver %q (want sqlite3 or postgres)", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			output TEXT NOT NULL,
			files TEXT NOT NULL,
			sources TEXT,
			pages INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != driverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record stores r. A missing ID or timestamp is filled in.
func (s *Store) Record(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = NewRunID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	files, err := json.Marshal(r.Files)
	if err != nil {
		return fmt.Errorf("encoding files: %w", err)
	}
	sources, err := json.Marshal(r.Sources)
	if err != nil {
		return fmt.Errorf("encoding sources: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO runs
		(id, output, files, sources, pages, status, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		r.ID, r.Output, string(files), string(sources), r.Pages, string(r.Status), r.Error,
		r.Duration.Milliseconds(), r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.ID, err)
	}
	return nil
}

const selectRuns = `SELECT id, output, files, sources, pages, status, error, duration_ms, created_at FROM runs`

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(selectRuns+` ORDER BY created_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectRuns+` WHERE id = ?`), id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r          Run
		files      string
		sources    sql.NullString
		status     string
		errText    sql.NullString
		durationMS int64
		createdAt  string
	)
	if err := sc.Scan(&r.ID, &r.Output, &files, &sources, &r.Pages, &status, &errText, &durationMS, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	if err := json.Unmarshal([]byte(files), &r.Files); err != nil {
		return nil, fmt.Errorf("decoding files of run %s: %w", r.ID, err)
	}
	if sources.Valid && sources.String != "" && sources.String != "null" {
		if err := json.Unmarshal([]byte(sources.String), &r.Sources); err != nil {
			return nil, fmt.Errorf("decoding sources of run %s: %w", r.ID, err)
		}
	}
	r.Status = Status(status)
	r.Error = errText.String
	r.Duration = time.Duration(durationMS) * time.Millisecond
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at of run %s: %w", r.ID, err)
	}
	r.CreatedAt = t
	return &r, nil
}
