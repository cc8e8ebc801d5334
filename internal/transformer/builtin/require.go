package builtin

import "salesetl/pkg/records"

// Require removes any record missing a value for one of the specified fields.
// Filtering happens in place by reslicing the input.
type Require struct {
	Fields []string

	// Dropped, when non-nil, receives the number of removed records.
	Dropped *int
}

// Apply returns only the records that have all required fields present and
// non-empty.
func (r Require) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, rec := range in {
		ok := true
		for _, f := range r.Fields {
			v, exists := rec[f]
			if !exists || v == nil || v == "" {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	if r.Dropped != nil {
		*r.Dropped += len(in) - len(out)
	}
	return out
}
