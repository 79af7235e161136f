// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists assembly-run manifests to SQLite so earlier
// runs stay inspectable after their output files are shipped off.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at cfg.DBPath,
// creating the schema when absent.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dir := filepath.Dir(cfg.DBPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
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
			output_path TEXT NOT NULL,
			generated_at TEXT NOT NULL,
			included INTEGER NOT NULL,
			excluded INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			total_pages INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			outcome TEXT NOT NULL,
			type TEXT NOT NULL,
			tag TEXT NOT NULL,
			title TEXT,
			position INTEGER NOT NULL,
			start_page INTEGER,
			end_page INTEGER,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_items_run_id ON run_items(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a manifest transactionally. Re-recording a run ID
// replaces its earlier rows.
func (s *Store) Record(ctx context.Context, m *types.Manifest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_items WHERE run_id = ?`, m.RunID); err != nil {
		return fmt.Errorf("deleting old run items: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, output_path, generated_at, included, excluded, failed, total_pages)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			output_path=excluded.output_path, generated_at=excluded.generated_at,
			included=excluded.included, excluded=excluded.excluded,
			failed=excluded.failed, total_pages=excluded.total_pages`,
		m.RunID, m.OutputPath, m.GeneratedAt.UTC().Format(time.RFC3339Nano),
		m.Summary.Included, m.Summary.Excluded, m.Summary.Failed, m.Summary.TotalPages,
	)
	if err != nil {
		return fmt.Errorf("upserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_items (run_id, outcome, type, tag, title, position, start_page, end_page, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	insert := func(outcome string, entries []types.ManifestEntry) error {
		for _, e := range entries {
			_, err := stmt.ExecContext(ctx,
				m.RunID, outcome, string(e.Type), e.Tag, e.Title,
				e.Position, e.StartPage, e.EndPage, e.Reason,
			)
			if err != nil {
				return fmt.Errorf("inserting %s item at position %d: %w", outcome, e.Position, err)
			}
		}
		return nil
	}
	if err := insert("included", m.Included); err != nil {
		return err
	}
	if err := insert("excluded", m.ExcludedByDesign); err != nil {
		return err
	}
	if err := insert("failed", m.Failed); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// RunSummary is one row of run history.
type RunSummary struct {
	RunID       string
	OutputPath  string
	GeneratedAt time.Time
	Included    int
	Excluded    int
	Failed      int
	TotalPages  int
}

// Recent returns the newest runs, most recent first. Limit values
// below 1 default to 10.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit < 1 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, output_path, generated_at, included, excluded, failed, total_pages
		 FROM runs ORDER BY generated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var generatedAt string
		if err := rows.Scan(&r.RunID, &r.OutputPath, &generatedAt,
			&r.Included, &r.Excluded, &r.Failed, &r.TotalPages); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp %q: %w", generatedAt, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get reconstructs the manifest for a run ID.
func (s *Store) Get(ctx context.Context, runID string) (*types.Manifest, error) {
	m := &types.Manifest{RunID: runID}

	var generatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT output_path, generated_at, total_pages FROM runs WHERE id = ?`, runID,
	).Scan(&m.OutputPath, &generatedAt, &m.Summary.TotalPages)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}
	m.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing run timestamp %q: %w", generatedAt, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT outcome, type, tag, title, position, start_page, end_page, reason
		 FROM run_items WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var outcome, typ string
		var e types.ManifestEntry
		if err := rows.Scan(&outcome, &typ, &e.Tag, &e.Title,
			&e.Position, &e.StartPage, &e.EndPage, &e.Reason); err != nil {
			return nil, fmt.Errorf("scanning run item: %w", err)
		}
		e.Type = types.ItemType(typ)
		switch outcome {
		case "included":
			m.Included = append(m.Included, e)
		case "excluded":
			m.ExcludedByDesign = append(m.ExcludedByDesign, e)
		case "failed":
			m.Failed = append(m.Failed, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	m.Summarize()
	return m, nil
}
