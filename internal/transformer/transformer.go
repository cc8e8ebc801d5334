// Package transformer defines the transformation contract applied between
// extraction and loading. Transformers operate on record slices and may
// filter in place; the cleaning rule set lives in the builtin subpackage.
package transformer

import "salesetl/pkg/records"

// Transformer rewrites or filters a batch of records. Implementations may
// mutate records in place and reslice the input.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers applied left to right.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
