package clean

import (
	"strings"
	"testing"
	"time"

	"salesetl/internal/schema"
	"salesetl/pkg/records"
)

func rawRecord(quantity, price string) records.Record {
	return records.Record{
		schema.FieldInvoiceNo:   "536365",
		schema.FieldStockCode:   "85123a ",
		schema.FieldDescription: "WHITE HANGING HEART T-LIGHT HOLDER",
		schema.FieldQuantity:    quantity,
		schema.FieldInvoiceDate: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
		schema.FieldUnitPrice:   price,
		schema.FieldCustomerID:  "17850",
		schema.FieldCountry:     "United Kingdom",
	}
}

func TestClean_PositivityInvariant(t *testing.T) {
	in := []records.Record{
		rawRecord("6", "2.55"),
		rawRecord("0", "2.55"),
		rawRecord("-4", "2.55"),
		rawRecord("6", "0"),
		rawRecord("6", "-1.5"),
		rawRecord("junk", "2.55"),
		rawRecord("6", "junk"),
	}

	out, dropped := Clean(in)
	if len(out) != 1 {
		t.Fatalf("kept %d records, want 1", len(out))
	}
	if dropped != 6 {
		t.Fatalf("dropped = %d, want 6", dropped)
	}
	for _, rec := range out {
		if rec.Int(schema.FieldQuantity) <= 0 {
			t.Fatalf("non-positive quantity survived: %#v", rec)
		}
		if rec.Float(schema.FieldUnitPrice) <= 0 {
			t.Fatalf("non-positive price survived: %#v", rec)
		}
	}
}

func TestClean_NormalizesStockCode(t *testing.T) {
	out, _ := Clean([]records.Record{rawRecord("6", "2.55")})
	if got := out[0].String(schema.FieldStockCode); got != "85123A" {
		t.Fatalf("stock_code = %q, want 85123A", got)
	}
}

func TestClean_TruncatesDescription(t *testing.T) {
	rec := rawRecord("6", "2.55")
	rec[schema.FieldDescription] = strings.Repeat("a", 300)

	out, _ := Clean([]records.Record{rec})
	if got := out[0].String(schema.FieldDescription); len(got) != 255 {
		t.Fatalf("description length = %d, want 255", len(got))
	}

	rec = rawRecord("6", "2.55")
	rec[schema.FieldDescription] = "short"
	out, _ = Clean([]records.Record{rec})
	if got := out[0].String(schema.FieldDescription); got != "short" {
		t.Fatalf("short description changed: %q", got)
	}
}

// TestClean_Deterministic verifies cleaning the same input twice yields the
// same result (re-cleaning a cleaned stock code is a no-op).
func TestClean_Deterministic(t *testing.T) {
	out, _ := Clean([]records.Record{rawRecord("6", "2.55")})
	again, dropped := Clean([]records.Record{out[0].Clone()})
	if dropped != 0 {
		t.Fatalf("re-cleaning dropped %d records", dropped)
	}
	if again[0].String(schema.FieldStockCode) != out[0].String(schema.FieldStockCode) {
		t.Fatalf("re-cleaning changed stock code")
	}
}
