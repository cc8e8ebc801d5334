// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the modernc driver. SQLite has no bulk-load protocol, so
// batches are written with a prepared INSERT inside one transaction per
// batch, which preserves the loader's per-batch commit semantics.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"salesetl/internal/storage"
	"salesetl/internal/warehouse"
)

// KindName identifies this backend in the storage factory.
const KindName = "sqlite"

func init() {
	storage.Register(KindName, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
	storage.RegisterDDL(KindName, ensureSchema)
	warehouse.RegisterDialect(KindName, statements)
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens the SQLite database named by cfg.DSN, e.g. "sales.db"
// or "file:sales.db?cache=shared".
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")
	return &Repository{db: db}, nil
}

// Kind implements storage.Repository.
func (r *Repository) Kind() string { return KindName }

// InsertRows writes the batch with a prepared INSERT inside one transaction,
// so the batch commits (or fails) as a unit.
func (r *Repository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insert := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()

	var n int64
	for _, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("sqlite: row width %d does not match %d columns", len(row), len(columns))
		}
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = bindValue(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("sqlite: insert into %s: %w", table, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return n, nil
}

// timeLayout is the datetime text form SQLite's date and strftime functions
// parse.
const timeLayout = "2006-01-02 15:04:05"

// bindValue rewrites values the driver would otherwise store in a form
// SQLite's date functions cannot read. time.Time becomes timeLayout text.
func bindValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(timeLayout)
	}
	return v
}

// Exec runs a set-based statement and returns the affected-row count.
func (r *Repository) Exec(ctx context.Context, query string) (int64, error) {
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Close releases the database handle.
func (r *Repository) Close() { r.db.Close() }
