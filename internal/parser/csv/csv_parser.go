// Package csv implements a streaming CSV parser for delimited sales exports.
// It never buffers the whole file, tolerates malformed rows (soft-fail with a
// skipped count), and normalizes headers to canonical column names.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"salesetl/pkg/records"
)

// Options configures the parser. Zero values get sensible defaults.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	HasHeader bool

	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// HeaderMap maps source header names to canonical keys. Only applies
	// when HasHeader is true. Headers not in the map are lower-cased with
	// spaces replaced by underscores.
	HeaderMap map[string]string

	// ExpectedFields, when > 0, enforces a fixed field count per record for
	// headerless input. Rows with a different width are skipped and counted.
	ExpectedFields int
}

// Parser parses CSV input according to Options. A Parser may be reused across
// inputs but is not safe for concurrent use.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

const utf8BOM = "\uFEFF"

// logLimit caps the number of per-row skip messages; past it rows are still
// counted but not logged.
const logLimit = 50

// Parse consumes CSV records from r and returns the parsed rows plus the
// number of rows skipped for parse errors or field-count mismatches. The
// reader is consumed fully; a header read failure is fatal, body row failures
// are not.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	var headers []string
	var out []records.Record
	var skipped int

	if p.opt.HasHeader {
		h, err := cr.Read()
		if err != nil {
			return nil, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = normalizeHeaders(h, p.opt)
	} else if p.opt.ExpectedFields > 0 {
		headers = make([]string, p.opt.ExpectedFields)
		for i := range headers {
			headers[i] = fmt.Sprintf("col_%d", i)
		}
	}

	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < logLimit {
				log.Printf("csv: skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}

		if len(headers) > 0 && len(row) != len(headers) {
			if skipped < logLimit {
				log.Printf("csv: skipping row %d: expected %d fields, got %d", line, len(headers), len(row))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[keyFor(i, headers)] = emptyToNil(val)
		}
		out = append(out, rec)
	}

	return out, skipped, nil
}

// keyFor returns the column key for index idx, preferring headers when known.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// emptyToNil converts an empty string to nil so missing values are uniform.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces canonical header keys using HeaderMap when
// provided, stripping a UTF-8 BOM from the first cell if present.
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if opt.HeaderMap != nil {
			if m, ok := opt.HeaderMap[c]; ok {
				res[i] = m
				continue
			}
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}
