package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/skillmap/internal/model"
)

var _ model.ResultStore = (*SQLiteStore)(nil)

// SQLiteStore keeps a snapshot of each run's count tables in a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	input      TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	records    INTEGER NOT NULL,
	exploded   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS city_skill_counts (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	city   TEXT NOT NULL,
	skill  TEXT NOT NULL,
	count  INTEGER NOT NULL,
	PRIMARY KEY (run_id, city, skill)
);
CREATE TABLE IF NOT EXISTS role_skill_counts (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	role   TEXT NOT NULL,
	skill  TEXT NOT NULL,
	count  INTEGER NOT NULL,
	PRIMARY KEY (run_id, role, skill)
);`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the snapshot tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveRun writes the run and both count tables in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run model.RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving run %s: begin: %w", run.RunID, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (run_id, input, started_at, records, exploded) VALUES (?, ?, ?, ?, ?)",
		run.RunID, run.Input, run.StartedAt.UTC(), run.Records, run.Exploded,
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.RunID, err)
	}

	if err := insertCounts(ctx, tx, "INSERT INTO city_skill_counts (run_id, city, skill, count) VALUES (?, ?, ?, ?)", run.RunID, run.CityCounts); err != nil {
		return fmt.Errorf("saving run %s: city counts: %w", run.RunID, err)
	}
	if err := insertCounts(ctx, tx, "INSERT INTO role_skill_counts (run_id, role, skill, count) VALUES (?, ?, ?, ?)", run.RunID, run.RoleCounts); err != nil {
		return fmt.Errorf("saving run %s: role counts: %w", run.RunID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving run %s: commit: %w", run.RunID, err)
	}
	return nil
}

func insertCounts(ctx context.Context, tx *sql.Tx, query, runID string, counts []model.Count) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range counts {
		if _, err := stmt.ExecContext(ctx, runID, c.Group, c.Key, c.Count); err != nil {
			return err
		}
	}
	return nil
}

// RunCount returns the number of stored runs.
func (s *SQLiteStore) RunCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return count, nil
}

// CityCounts reads back the city counts of a run, ordered by city and skill.
// Display is left empty; it is derived from the key.
func (s *SQLiteStore) CityCounts(ctx context.Context, runID string) ([]model.Count, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT city, skill, count FROM city_skill_counts WHERE run_id = ? ORDER BY city, skill", runID)
	if err != nil {
		return nil, fmt.Errorf("reading city counts for %s: %w", runID, err)
	}
	defer rows.Close()

	var out []model.Count
	for rows.Next() {
		var c model.Count
		if err := rows.Scan(&c.Group, &c.Key, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning city count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Cleanup deletes runs started before now minus olderThan.
func (s *SQLiteStore) Cleanup(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UTC()
	for _, q := range []string{
		"DELETE FROM city_skill_counts WHERE run_id IN (SELECT run_id FROM runs WHERE started_at < ?)",
		"DELETE FROM role_skill_counts WHERE run_id IN (SELECT run_id FROM runs WHERE started_at < ?)",
		"DELETE FROM runs WHERE started_at < ?",
	} {
		if _, err := s.db.ExecContext(ctx, q, cutoff); err != nil {
			return fmt.Errorf("cleaning up runs older than %v: %w", olderThan, err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
