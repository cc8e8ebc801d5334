// Package builtin contains the reusable cleaning transformers applied to
// parsed sales records before loading.
package builtin

import (
	"strconv"
	"strings"

	"salesetl/pkg/records"
)

// CoerceInt parses s as an integer. Unparsable input yields 0: invalid
// quantities collapse to zero and are removed later by the positivity
// filter, so a bad value and a literal zero are indistinguishable
// downstream.
func CoerceInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// CoerceFloat parses s as a decimal, with the same error-to-zero policy as
// CoerceInt.
func CoerceFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// Numeric coerces configured fields in place: IntFields to int and
// FloatFields to float64. Values that are already typed are left alone;
// nil values become typed zeroes so later filters see a uniform shape.
type Numeric struct {
	IntFields   []string
	FloatFields []string
}

func (n Numeric) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range n.IntFields {
			switch v := r[f].(type) {
			case string:
				r[f] = CoerceInt(v)
			case nil:
				r[f] = 0
			}
		}
		for _, f := range n.FloatFields {
			switch v := r[f].(type) {
			case string:
				r[f] = CoerceFloat(v)
			case nil:
				r[f] = float64(0)
			}
		}
	}
	return in
}
