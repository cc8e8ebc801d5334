// Package storage contains storage-agnostic contracts and utilities: the
// Repository interface every backend implements, a factory keyed by backend
// kind, the batched loader, and the schema bootstrap registry.
//
// Concrete backends (postgres, sqlite) live in subpackages and register
// themselves at init time; callers stay backend-agnostic and select a kind
// through configuration.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is the minimal surface the pipeline needs from a relational
// store: batched inserts into a named table, execution of set-based SQL with
// an affected-row count, and cleanup.
type Repository interface {
	// Kind returns the backend kind this repository was opened as
	// (e.g. "postgres"). Used to select dialect-specific SQL.
	Kind() string

	// InsertRows appends rows into table. Row values must align with the
	// columns order. Each call commits independently: rows inserted by a
	// successful call stay committed even if a later call fails.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Exec runs a set-based statement and returns the affected-row count.
	Exec(ctx context.Context, sql string) (int64, error)

	// Close releases the underlying connections.
	Close()
}

// Config selects and configures a backend.
type Config struct {
	// Kind selects the registered backend, e.g. "postgres" or "sqlite".
	Kind string

	// DSN is the backend-specific connection string.
	DSN string
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. It is
// typically called from backend packages' init functions.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind, or fails when no backend with that
// kind has been registered.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered backend kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
