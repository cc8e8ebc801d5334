package builtin

import (
	"strings"

	"salesetl/pkg/records"
)

// NormalizeCode trims surrounding whitespace and upper-cases a product code.
// It is idempotent: applying it to an already-normalized code is a no-op.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Truncate cuts s to at most limit runes. Shorter strings pass unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// UpperTrim normalizes the configured string fields with NormalizeCode.
type UpperTrim struct {
	Fields []string
}

func (u UpperTrim) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range u.Fields {
			if s, ok := r[f].(string); ok {
				r[f] = NormalizeCode(s)
			}
		}
	}
	return in
}

// TruncateField caps the configured string fields at Limit runes.
type TruncateField struct {
	Fields []string
	Limit  int
}

func (t TruncateField) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range t.Fields {
			if s, ok := r[f].(string); ok {
				r[f] = Truncate(s, t.Limit)
			}
		}
	}
	return in
}
