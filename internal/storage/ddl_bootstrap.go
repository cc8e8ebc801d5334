package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLBootstrapper creates the staging and warehouse tables for one backend
// if they do not exist, via repo.Exec. Backends register their implementation
// for their kind at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given backend
// kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureSchema locates the DDLBootstrapper for the repository's kind and
// invokes it. Callers do not need to know which backend they are using.
func EnsureSchema(ctx context.Context, repo Repository) error {
	ddlMu.RLock()
	fn, ok := ddlFns[repo.Kind()]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", repo.Kind())
	}
	return fn(ctx, repo)
}
