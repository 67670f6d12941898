package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nathoo/replaycore/compare"
)

// Store keeps replay reports in a sqlite database so runs can be compared
// over time.
type Store struct {
	db *sql.DB
}

// RunSummary is one stored run.
type RunSummary struct {
	ID              int64
	Source          string
	Seed            int64
	Role            string
	Steps           int
	Matched         int
	FirstDivergence int
	Recorded        time.Time
}

// StoredStep is one stored step verdict.
type StoredStep struct {
	Index       int
	Key         string
	Kind        string
	Match       bool
	RngMatch    bool
	ScreenMatch bool
	GridCells   int
	Detail      string
}

// OpenStore opens or creates the database at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			seed INTEGER NOT NULL,
			role TEXT NOT NULL,
			steps INTEGER NOT NULL,
			matched INTEGER NOT NULL,
			first_divergence INTEGER NOT NULL,
			keys_recorded INTEGER NOT NULL,
			keys_fed INTEGER NOT NULL,
			keys_injected INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS steps (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			key TEXT NOT NULL,
			kind TEXT NOT NULL,
			rng_match INTEGER NOT NULL,
			screen_match INTEGER NOT NULL,
			grid_cells INTEGER NOT NULL,
			detail TEXT NOT NULL,
			PRIMARY KEY (run_id, idx)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a report and returns its run id.
func (s *Store) SaveRun(ctx context.Context, r *Report, at time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, seed, role, steps, matched, first_divergence,
			keys_recorded, keys_fed, keys_injected, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Source, r.Seed, r.Role, len(r.Steps), r.Matched, r.FirstDivergence(),
		r.Keys.Recorded, r.Keys.Fed, r.Keys.Injected, at.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO steps (run_id, idx, key, kind, rng_match, screen_match, grid_cells, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, st := range r.Steps {
		detail := ""
		if !st.RngMatch {
			detail = compare.FormatMismatch(st.Mismatch)
		}
		screenOK := !st.ScreenCompared || st.ScreenMatch
		if _, err := stmt.ExecContext(ctx, id, st.Index, st.Key, st.Kind.String(),
			st.RngMatch, screenOK, st.GridDiff.Count, detail); err != nil {
			return 0, fmt.Errorf("inserting step %d: %w", st.Index, err)
		}
	}
	return id, tx.Commit()
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, seed, role, steps, matched, first_divergence, recorded_at
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		var at string
		if err := rows.Scan(&rs.ID, &rs.Source, &rs.Seed, &rs.Role, &rs.Steps, &rs.Matched, &rs.FirstDivergence, &at); err != nil {
			return nil, err
		}
		rs.Recorded, _ = time.Parse(time.RFC3339, at)
		out = append(out, rs)
	}
	return out, rows.Err()
}

// Steps returns the stored steps of a run in order.
func (s *Store) Steps(ctx context.Context, runID int64) ([]StoredStep, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, key, kind, rng_match, screen_match, grid_cells, detail
		FROM steps WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredStep
	for rows.Next() {
		var st StoredStep
		if err := rows.Scan(&st.Index, &st.Key, &st.Kind, &st.RngMatch, &st.ScreenMatch, &st.GridCells, &st.Detail); err != nil {
			return nil, err
		}
		st.Match = st.RngMatch && st.ScreenMatch && st.GridCells == 0
		out = append(out, st)
	}
	return out, rows.Err()
}
