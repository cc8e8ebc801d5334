// Package clean applies the cleaning rule set to raw sales records: numeric
// coercion with an error-to-zero policy, stock code normalization,
// description truncation, and the strict positivity filter.
package clean

import (
	"log"

	"salesetl/internal/schema"
	"salesetl/internal/transformer"
	"salesetl/internal/transformer/builtin"
	"salesetl/pkg/records"
)

// DescriptionLimit is the maximum retained description length in runes,
// matching the staging column width.
const DescriptionLimit = 255

// Clean transforms raw records in place and returns the surviving set plus
// the number dropped by the positivity filter. The transformation is pure in
// the sense that it touches nothing outside the passed slice and is
// deterministic for a given input.
func Clean(in []records.Record) ([]records.Record, int) {
	var dropped int

	chain := transformer.Chain{
		builtin.Numeric{
			IntFields:   []string{schema.FieldQuantity},
			FloatFields: []string{schema.FieldUnitPrice},
		},
		builtin.UpperTrim{Fields: []string{schema.FieldStockCode}},
		builtin.TruncateField{Fields: []string{schema.FieldDescription}, Limit: DescriptionLimit},
		builtin.Positive{
			IntFields:   []string{schema.FieldQuantity},
			FloatFields: []string{schema.FieldUnitPrice},
			Dropped:     &dropped,
		},
	}

	out := chain.Apply(in)
	log.Printf("clean: rows=%d dropped=%d", len(out), dropped)
	return out, dropped
}
