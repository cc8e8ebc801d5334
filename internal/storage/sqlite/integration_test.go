package sqlite_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"salesetl/internal/pipeline"
	"salesetl/internal/storage"
	_ "salesetl/internal/storage/sqlite"
	"salesetl/internal/warehouse"
)

func gate(t *testing.T) {
	t.Helper()
	if os.Getenv("SALESETL_SQLITE_TEST") == "" {
		t.Skip("set SALESETL_SQLITE_TEST=1 to run the sqlite integration tests")
	}
}

func openRepo(t *testing.T, ctx context.Context) (storage.Repository, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "sales.db")
	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: dbPath})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(repo.Close)
	if err := storage.EnsureSchema(ctx, repo); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return repo, dbPath
}

// queryInt runs a single-value query straight against the database file,
// bypassing the Repository, for assertions on stored state.
func queryInt(t *testing.T, dbPath, query string) int {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db for query: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(query).Scan(&n); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return n
}

func queryString(t *testing.T, dbPath, query string) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db for query: %v", err)
	}
	defer db.Close()
	var s string
	if err := db.QueryRow(query).Scan(&s); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return s
}

// TestSQLitePipeline runs the full six-stage sequence against a throwaway
// SQLite file. Gated behind an env var so unit runs stay hermetic.
func TestSQLitePipeline(t *testing.T) {
	gate(t)

	// 85123A appears twice with differing descriptions; the dimension must
	// keep the first-seen one.
	csv := filepath.Join(t.TempDir(), "sales.csv")
	data := "InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country\n" +
		"536365,85123A,WHITE HANGING HEART,6,12/1/2010 8:26,2.55,17850,United Kingdom\n" +
		"536365,71053,WHITE METAL LANTERN,6,12/1/2010 8:26,3.39,17850,United Kingdom\n" +
		"536366,85123A,CREAM HANGING HEART,4,12/2/2010 9:00,2.55,13047,United Kingdom\n" +
		"536370,22728,ALARM CLOCK BAKELIKE,24,12/2/2010 8:45,3.75,12583,France\n"
	if err := os.WriteFile(csv, []byte(data), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	ctx := context.Background()
	repo, dbPath := openRepo(t, ctx)

	p := pipeline.New(repo, "integration")
	sum, ok := p.Run(ctx, csv)
	if !ok {
		t.Fatalf("pipeline failed: %v", p.Err())
	}

	if sum.Loaded != 4 {
		t.Errorf("Loaded = %d, want 4", sum.Loaded)
	}
	if sum.Transformed != 4 {
		t.Errorf("Transformed = %d, want 4", sum.Transformed)
	}
	if sum.Dimensions.Customers != 3 {
		t.Errorf("Dimensions.Customers = %d, want 3", sum.Dimensions.Customers)
	}
	if sum.Dimensions.Products != 3 {
		t.Errorf("Dimensions.Products = %d, want 3 (distinct stock codes)", sum.Dimensions.Products)
	}
	if sum.Dimensions.Dates != 2 {
		t.Errorf("Dimensions.Dates = %d, want 2", sum.Dimensions.Dates)
	}
	if sum.Facts != 4 {
		t.Errorf("Facts = %d, want 4", sum.Facts)
	}

	// Stored timestamps must be readable by SQLite's date functions.
	if n := queryInt(t, dbPath, "SELECT COUNT(*) FROM CleanedSales WHERE date(InvoiceDate) IS NULL"); n != 0 {
		t.Errorf("%d CleanedSales rows have an unparsable InvoiceDate", n)
	}

	// First-seen description wins for the duplicated stock code.
	got := queryString(t, dbPath, "SELECT Description FROM DimProducts WHERE StockCode = '85123A'")
	if got != "WHITE HANGING HEART" {
		t.Errorf("DimProducts description = %q, want first-seen %q", got, "WHITE HANGING HEART")
	}

	// Append-only: a later sale with a new description for the same code adds
	// no product row and rewrites nothing.
	_, err := repo.Exec(ctx, `
		INSERT INTO CleanedSales
			(InvoiceNo, StockCode, Description, Quantity, InvoiceDate, UnitPrice, CustomerID, Country, TotalAmount)
		VALUES
			('536399', '85123A', 'PINK HANGING HEART', 1, '2010-12-03 10:00:00', 2.55, '17850', 'United Kingdom', 2.55)`)
	if err != nil {
		t.Fatalf("seed later sale: %v", err)
	}
	counts, err := warehouse.PopulateDimensions(ctx, repo)
	if err != nil {
		t.Fatalf("re-populate dimensions: %v", err)
	}
	if counts.Products != 0 {
		t.Errorf("re-run appended %d product rows, want 0", counts.Products)
	}
	got = queryString(t, dbPath, "SELECT Description FROM DimProducts WHERE StockCode = '85123A'")
	if got != "WHITE HANGING HEART" {
		t.Errorf("re-run changed description to %q", got)
	}
}

// TestSQLiteOrphanFactRowsDropped verifies the inner-join fact load: a
// cleaned row whose customer has no dimension match produces no fact row and
// no error.
func TestSQLiteOrphanFactRowsDropped(t *testing.T) {
	gate(t)

	ctx := context.Background()
	repo, _ := openRepo(t, ctx)

	seed := `
		INSERT INTO CleanedSales
			(InvoiceNo, StockCode, Description, Quantity, InvoiceDate, UnitPrice, CustomerID, Country, TotalAmount)
		VALUES
			('536365', '85123A', 'WHITE HANGING HEART', 6, '2010-12-01 08:26:00', 2.55, '17850', 'United Kingdom', 15.30),
			('536366', '71053', 'WHITE METAL LANTERN', 2, '2010-12-01 08:28:00', 3.39, '13047', 'United Kingdom', 6.78)`
	if _, err := repo.Exec(ctx, seed); err != nil {
		t.Fatalf("seed cleaned rows: %v", err)
	}
	if _, err := warehouse.PopulateDimensions(ctx, repo); err != nil {
		t.Fatalf("populate dimensions: %v", err)
	}

	// Arrives after the dimension load; its customer is unknown, its product
	// and date both match.
	orphan := `
		INSERT INTO CleanedSales
			(InvoiceNo, StockCode, Description, Quantity, InvoiceDate, UnitPrice, CustomerID, Country, TotalAmount)
		VALUES
			('536367', '85123A', 'WHITE HANGING HEART', 1, '2010-12-01 09:00:00', 2.55, '99999', 'United Kingdom', 2.55)`
	if _, err := repo.Exec(ctx, orphan); err != nil {
		t.Fatalf("seed orphan row: %v", err)
	}

	n, err := warehouse.PopulateFacts(ctx, repo)
	if err != nil {
		t.Fatalf("populate facts: %v", err)
	}
	if n != 2 {
		t.Fatalf("facts inserted = %d, want 2 (orphan dropped)", n)
	}
}
