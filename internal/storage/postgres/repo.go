// Package postgres implements a Postgres-backed storage.Repository using pgx
// v5. Batched inserts use the COPY protocol; each CopyFrom call runs in its
// own implicit transaction, giving the per-batch commit semantics the loader
// relies on.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salesetl/internal/storage"
	"salesetl/internal/warehouse"
)

// KindName identifies this backend in the storage factory.
const KindName = "postgres"

func init() {
	storage.Register(KindName, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
	storage.RegisterDDL(KindName, ensureSchema)
	warehouse.RegisterDialect(KindName, statements)
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository opens a connection pool for cfg.DSN and verifies it with a
// ping.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgxpool ping: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// Kind implements storage.Repository.
func (r *Repository) Kind() string { return KindName }

// InsertRows bulk-inserts rows via COPY. One CopyFrom call is one implicit
// transaction, so the batch commits as a unit.
func (r *Repository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, tableIdent(table), lowerAll(columns), pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", table, err)
	}
	return n, nil
}

// Exec runs a set-based statement and returns the affected-row count.
func (r *Repository) Exec(ctx context.Context, sql string) (int64, error) {
	tag, err := r.pool.Exec(ctx, sql)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Close releases the pool.
func (r *Repository) Close() { r.pool.Close() }

// tableIdent converts "schema.table" into a pgx.Identifier. pgx quotes each
// part, and our DDL creates tables with unquoted (lower-folded) names, so
// parts are lower-cased here to match.
func tableIdent(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, strings.ToLower(p))
		}
	}
	return id
}

func lowerAll(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.ToLower(c)
	}
	return out
}
