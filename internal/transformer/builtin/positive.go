package builtin

import "salesetl/pkg/records"

// Positive removes records whose configured numeric fields are not strictly
// greater than zero. Combined with the error-to-zero coercion in Numeric,
// this is what silently drops unparsable quantities and prices.
type Positive struct {
	IntFields   []string
	FloatFields []string

	// Dropped, when non-nil, receives the number of removed records.
	Dropped *int
}

func (p Positive) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, rec := range in {
		if p.keep(rec) {
			out = append(out, rec)
		}
	}
	if p.Dropped != nil {
		*p.Dropped += len(in) - len(out)
	}
	return out
}

func (p Positive) keep(rec records.Record) bool {
	for _, f := range p.IntFields {
		n, ok := rec[f].(int)
		if !ok || n <= 0 {
			return false
		}
	}
	for _, f := range p.FloatFields {
		v, ok := rec[f].(float64)
		if !ok || v <= 0 {
			return false
		}
	}
	return true
}
