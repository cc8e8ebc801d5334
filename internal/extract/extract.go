// Package extract implements the first pipeline stage: read a delimited
// sales export into memory, decode its charset, type the invoice timestamp,
// and drop rows that have no customer identifier.
package extract

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"salesetl/internal/encoding"
	csvparser "salesetl/internal/parser/csv"
	"salesetl/internal/schema"
	"salesetl/internal/transformer/builtin"
	"salesetl/pkg/records"
)

// Options configures extraction. The zero value reads a comma-delimited file
// with the standard sales header.
type Options struct {
	// Comma overrides the field delimiter. Zero means ','.
	Comma rune
}

// Result carries the extracted rows plus diagnostic counts. The counts are
// informational only; they do not gate downstream stages.
type Result struct {
	Records []records.Record

	// SkippedRows is the number of malformed CSV rows the parser dropped.
	SkippedRows int

	// BadTimestamps is the number of rows rejected because the invoice
	// timestamp did not parse under any known layout.
	BadTimestamps int

	// MissingCustomer is the number of rows dropped for a null CustomerID.
	MissingCustomer int
}

// Extract reads the file at path and returns the accepted raw records.
// Failure to open, decode, or read the header fails the whole extraction;
// there is no partial success.
func Extract(path string, opt Options) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	dec, err := encoding.DecodeReader(f)
	if err != nil {
		return Result{}, fmt.Errorf("decode source file: %w", err)
	}

	// No blanket TrimSpace: the description must pass through with its
	// spacing intact. Fields with their own parsing or matching rules are
	// trimmed individually below.
	p := csvparser.NewParser(csvparser.Options{
		HasHeader: true,
		Comma:     opt.Comma,
		HeaderMap: schema.HeaderMap,
	})
	recs, skipped, err := p.Parse(dec)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", path, err)
	}

	res := Result{SkippedRows: skipped}

	// Type the invoice timestamp at read time. Rows whose timestamp does not
	// parse are rejected here rather than carrying a null downstream.
	kept := recs[:0]
	for _, rec := range recs {
		ts, ok := parseTimestamp(strings.TrimSpace(rec.String(schema.FieldInvoiceDate)))
		if !ok {
			res.BadTimestamps++
			continue
		}
		rec[schema.FieldInvoiceDate] = ts
		trimCustomerID(rec)
		kept = append(kept, rec)
	}

	req := builtin.Require{
		Fields:  []string{schema.FieldCustomerID},
		Dropped: &res.MissingCustomer,
	}
	res.Records = req.Apply(kept)

	log.Printf("extract: rows=%d skipped=%d bad_timestamps=%d missing_customer=%d",
		len(res.Records), res.SkippedRows, res.BadTimestamps, res.MissingCustomer)

	return res, nil
}

// trimCustomerID trims the customer identifier so whitespace-only values are
// treated as missing and padded ones match across rows.
func trimCustomerID(rec records.Record) {
	if id, ok := rec[schema.FieldCustomerID].(string); ok {
		id = strings.TrimSpace(id)
		if id == "" {
			rec[schema.FieldCustomerID] = nil
			return
		}
		rec[schema.FieldCustomerID] = id
	}
}

// parseTimestamp tries each known layout in order.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range schema.TimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
