// Package warehouse drives the star-schema population sequence against the
// cleaned store: the staging→cleaned transform, the three dimension loads,
// and the fact load. The SQL itself is dialect-specific and registered per
// storage backend; this package only sequences the statements and interprets
// their affected-row counts.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"salesetl/internal/storage"
)

// Statements is the set of dialect-specific set-based statements a backend
// provides. All statements operate entirely server-side and take no
// parameters; they are written against the fixed table contract
// (RawSalesData, CleanedSales, DimCustomers, DimProducts, DimTime,
// FactSales).
type Statements struct {
	// TransformSales copies staged rows into CleanedSales, computing
	// TotalAmount = Quantity * UnitPrice.
	TransformSales string

	// InsertCustomers aggregates CleanedSales per customer (first purchase
	// date, distinct order count, total spend) and appends customers not yet
	// present in DimCustomers.
	InsertCustomers string

	// InsertProducts appends first-seen products to DimProducts. Existing
	// rows are never updated: the description recorded at first sight is
	// permanent (append-only dimension policy).
	InsertProducts string

	// InsertDates expands distinct calendar dates into DimTime, guarded by
	// NOT EXISTS so re-runs add no duplicate date keys.
	InsertDates string

	// InsertFacts joins CleanedSales to the three dimensions on natural keys
	// and inserts one fact row per match. Inner-join semantics: rows whose
	// keys have no dimension match are dropped, intentionally and silently.
	InsertFacts string
}

var (
	dialectMu sync.RWMutex
	dialects  = map[string]Statements{}
)

// RegisterDialect installs the statement set for a storage kind. Called from
// backend packages' init functions.
func RegisterDialect(kind string, s Statements) {
	dialectMu.Lock()
	defer dialectMu.Unlock()
	dialects[kind] = s
}

// DialectFor returns the statement set registered for kind.
func DialectFor(kind string) (Statements, error) {
	dialectMu.RLock()
	defer dialectMu.RUnlock()
	s, ok := dialects[kind]
	if !ok {
		return Statements{}, fmt.Errorf("no warehouse dialect registered for storage.kind=%q", kind)
	}
	return s, nil
}

// ErrNoRowsTransformed reports a transform that ran successfully but moved
// zero rows. The pipeline treats this as an unrecoverable failure rather
// than an empty-but-healthy run.
var ErrNoRowsTransformed = errors.New("transform affected zero rows")

// Transform runs the staging→cleaned transform and returns the number of
// rows it moved.
func Transform(ctx context.Context, repo storage.Repository) (int64, error) {
	stmts, err := DialectFor(repo.Kind())
	if err != nil {
		return 0, err
	}
	n, err := repo.Exec(ctx, stmts.TransformSales)
	if err != nil {
		return 0, fmt.Errorf("transform sales: %w", err)
	}
	if n == 0 {
		return 0, ErrNoRowsTransformed
	}
	log.Printf("warehouse: transformed rows=%d", n)
	return n, nil
}

// DimCounts reports rows appended to each dimension by PopulateDimensions.
type DimCounts struct {
	Customers int64
	Products  int64
	Dates     int64
}

// PopulateDimensions runs the three dimension loads in order: customers,
// products, calendar dates. Each statement commits on its own; the first
// failure aborts the remaining steps.
func PopulateDimensions(ctx context.Context, repo storage.Repository) (DimCounts, error) {
	stmts, err := DialectFor(repo.Kind())
	if err != nil {
		return DimCounts{}, err
	}

	var counts DimCounts
	steps := []struct {
		name string
		sql  string
		dst  *int64
	}{
		{"customers", stmts.InsertCustomers, &counts.Customers},
		{"products", stmts.InsertProducts, &counts.Products},
		{"dates", stmts.InsertDates, &counts.Dates},
	}
	for _, step := range steps {
		n, err := repo.Exec(ctx, step.sql)
		if err != nil {
			return counts, fmt.Errorf("populate %s dimension: %w", step.name, err)
		}
		*step.dst = n
	}

	log.Printf("warehouse: dimensions customers=%d products=%d dates=%d",
		counts.Customers, counts.Products, counts.Dates)
	return counts, nil
}

// PopulateFacts runs the fact load and returns the number of fact rows
// inserted.
func PopulateFacts(ctx context.Context, repo storage.Repository) (int64, error) {
	stmts, err := DialectFor(repo.Kind())
	if err != nil {
		return 0, err
	}
	n, err := repo.Exec(ctx, stmts.InsertFacts)
	if err != nil {
		return 0, fmt.Errorf("populate facts: %w", err)
	}
	log.Printf("warehouse: facts inserted=%d", n)
	return n, nil
}
