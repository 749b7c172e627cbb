package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/newsprobe/concrete/pkg/concrete/report"
	"github.com/newsprobe/concrete/pkg/concrete/store"
	"github.com/newsprobe/concrete/pkg/concrete/table"
)

// sqliteSink writes enriched tables to a SQLite database. Because the output
// column set varies per run, cells are stored in long form keyed by
// (run, row, column); the runs table keeps the per-run metadata.
type sqliteSink struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database with WAL mode enabled and the
// schema initialized.
func Open(ctx context.Context, path string) (store.Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteSink{db: db}, nil
}

// Close closes the database connection.
func (s *sqliteSink) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	started_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	row_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS columns (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS cells (
	run_id TEXT NOT NULL,
	row_idx INTEGER NOT NULL,
	column_name TEXT NOT NULL,
	value TEXT,
	PRIMARY KEY(run_id, row_idx, column_name),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// WriteTable persists the run metadata and every cell of the enriched table
// in a single transaction.
func (s *sqliteSink) WriteTable(ctx context.Context, tbl *table.Table, run *report.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	runID := ""
	if run != nil {
		runID = run.ID
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO runs (id, source, started_at, duration_ms, row_count)
			 VALUES (?, ?, ?, ?, ?)`,
			run.ID, run.Source, run.StartedAt.Format(time.RFC3339),
			run.DurationMS, len(tbl.Rows))
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
	}

	colStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO columns (run_id, position, name) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer colStmt.Close()
	for i, name := range tbl.Columns {
		if _, err := colStmt.ExecContext(ctx, runID, i, name); err != nil {
			return fmt.Errorf("insert column %q: %w", name, err)
		}
	}

	cellStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO cells (run_id, row_idx, column_name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer cellStmt.Close()
	for rowIdx, row := range tbl.Rows {
		for colIdx, name := range tbl.Columns {
			value := ""
			if colIdx < len(row) {
				value = row[colIdx]
			}
			if _, err := cellStmt.ExecContext(ctx, runID, rowIdx, name, value); err != nil {
				return fmt.Errorf("insert cell (%d, %q): %w", rowIdx, name, err)
			}
		}
	}

	return tx.Commit()
}
