package pipeline

import "fmt"

// Stage errors wrap the underlying cause of a stage failure. The orchestrator
// catches them at the stage boundary, logs them, and collapses the run to a
// boolean result; they exist so logs and tests can tell stages apart.

// ExtractionError reports a file open, decode, or parse failure.
type ExtractionError struct{ Err error }

func (e *ExtractionError) Error() string { return fmt.Sprintf("extraction failed: %v", e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// LoadError reports a connectivity or batch-insert failure. Batches committed
// before the failure remain committed.
type LoadError struct{ Err error }

func (e *LoadError) Error() string { return fmt.Sprintf("load failed: %v", e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// TransformError reports a server-side transform failure or a zero-row
// transform result.
type TransformError struct{ Err error }

func (e *TransformError) Error() string { return fmt.Sprintf("transform failed: %v", e.Err) }
func (e *TransformError) Unwrap() error { return e.Err }

// DimensionError reports a failure in one of the dimension population steps.
type DimensionError struct{ Err error }

func (e *DimensionError) Error() string { return fmt.Sprintf("dimension population failed: %v", e.Err) }
func (e *DimensionError) Unwrap() error { return e.Err }

// FactError reports a failure in the fact population step.
type FactError struct{ Err error }

func (e *FactError) Error() string { return fmt.Sprintf("fact population failed: %v", e.Err) }
func (e *FactError) Unwrap() error { return e.Err }
