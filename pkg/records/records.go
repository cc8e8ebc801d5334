// Package records defines the row representation passed between pipeline
// stages. A Record is a loose map keyed by canonical column name; values are
// raw strings as parsed, or typed values (int, float64, time.Time) once a
// stage has coerced them.
package records

import "time"

// Record is one logical row. Absent and nil keys are equivalent.
type Record map[string]any

// String returns the string value for key, or "" when the key is missing or
// holds a non-string value.
func (r Record) String(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Int returns the int value for key, or 0 when missing or not an int.
func (r Record) Int(key string) int {
	if v, ok := r[key]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return 0
}

// Float returns the float64 value for key, or 0 when missing or not a float64.
func (r Record) Float(key string) float64 {
	if v, ok := r[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

// Time returns the time.Time value for key, or the zero time when missing or
// not a time.Time.
func (r Record) Time(key string) time.Time {
	if v, ok := r[key]; ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// Has reports whether key is present with a non-nil, non-empty value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil && v != ""
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
