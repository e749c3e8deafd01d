// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records completed processing runs in a SQLite database so
// past conversions can be listed from the CLI. Recording is best-effort
// bookkeeping; a history failure never fails the pipeline.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "paperfmt.db"

// Run is one completed processing run.
type Run struct {
	ID          int64     `json:"id" yaml:"id"`
	Input       string    `json:"input" yaml:"input"`
	Output      string    `json:"output" yaml:"output"`
	Title       string    `json:"title" yaml:"title"`
	Mode        string    `json:"mode" yaml:"mode"`
	Sections    int       `json:"sections" yaml:"sections"`
	Tables      int       `json:"tables" yaml:"tables"`
	Equations   int       `json:"equations" yaml:"equations"`
	ProcessedAt time.Time `json:"processed_at" yaml:"processed_at"`
}

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at dir/paperfmt.db, creating the
// schema if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		title TEXT,
		mode TEXT NOT NULL,
		sections INTEGER,
		tables_described INTEGER,
		equations_described INTEGER,
		processed_at TEXT NOT NULL
	)`)
	return err
}

// Record inserts one run.
func (s *Store) Record(r Run) error {
	if r.ProcessedAt.IsZero() {
		r.ProcessedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (input, output, title, mode, sections, tables_described, equations_described, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Input, r.Output, r.Title, r.Mode, r.Sections, r.Tables, r.Equations,
		r.ProcessedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, input, output, title, mode, sections, tables_described, equations_described, processed_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&r.ID, &r.Input, &r.Output, &r.Title, &r.Mode, &r.Sections, &r.Tables, &r.Equations, &ts); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			r.ProcessedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
