// Package pipeline implements the ETL orchestrator: a strict six-stage
// sequence (extract → clean → load → transform → dimensions → facts) with no
// branching, no retries, and fail-fast abort. Each stage's success gates the
// next; the whole run collapses to a single boolean for the caller.
package pipeline

import (
	"context"
	"log"
	"time"

	"salesetl/internal/clean"
	"salesetl/internal/extract"
	"salesetl/internal/metrics"
	"salesetl/internal/schema"
	"salesetl/internal/storage"
	"salesetl/internal/warehouse"
	"salesetl/pkg/records"
)

// State names the orchestrator's position in the run.
type State string

const (
	StateIdle                 State = "Idle"
	StateExtracting           State = "Extracting"
	StateCleaning             State = "Cleaning"
	StateLoading              State = "Loading"
	StateTransforming         State = "Transforming"
	StatePopulatingDimensions State = "PopulatingDimensions"
	StatePopulatingFacts      State = "PopulatingFacts"
	StateDone                 State = "Done"
	StateAborted              State = "Aborted"
)

// DefaultBatchSize is the staging load batch size when none is configured.
const DefaultBatchSize = 1000

// Summary aggregates per-stage counts for one run. Individual rejected rows
// are not observable, only these aggregates.
type Summary struct {
	Extracted       int
	SkippedRows     int
	BadTimestamps   int
	MissingCustomer int

	Cleaned      int
	CleanDropped int

	Loaded      int64
	Transformed int64
	Dimensions  warehouse.DimCounts
	Facts       int64

	Elapsed time.Duration
}

// ETLPipeline orchestrates one full run against an injected repository. The
// repository is a pooled, long-lived dependency; the pipeline never opens
// connections of its own.
type ETLPipeline struct {
	repo      storage.Repository
	job       string
	batchSize int
	extract   extract.Options

	state State
	err   error
}

// Option customizes an ETLPipeline.
type Option func(*ETLPipeline)

// WithBatchSize overrides the staging load batch size.
func WithBatchSize(n int) Option {
	return func(p *ETLPipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithExtractOptions overrides the extraction options.
func WithExtractOptions(opt extract.Options) Option {
	return func(p *ETLPipeline) { p.extract = opt }
}

// New constructs an idle pipeline bound to repo. job names the run in logs
// and metrics.
func New(repo storage.Repository, job string, opts ...Option) *ETLPipeline {
	p := &ETLPipeline{
		repo:      repo,
		job:       job,
		batchSize: DefaultBatchSize,
		state:     StateIdle,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// State returns the current orchestrator state.
func (p *ETLPipeline) State() State { return p.state }

// Err returns the stage error that aborted the run, or nil.
func (p *ETLPipeline) Err() error { return p.err }

// Run executes the full sequence for the file at path and reports success.
// The first stage failure aborts the run; earlier side effects (committed
// staging batches) are not rolled back, and a re-run starts from scratch.
func (p *ETLPipeline) Run(ctx context.Context, path string) (Summary, bool) {
	var sum Summary
	start := time.Now()
	defer func() {
		sum.Elapsed = time.Since(start)
		log.Printf("pipeline: state=%s elapsed=%s", p.state, sum.Elapsed.Truncate(time.Millisecond))
	}()

	// Extract. The record set is handed stage to stage by ownership
	// transfer; no stage retains it after passing it on.
	p.enter(StateExtracting)
	var recs []records.Record
	err := p.timed("extract", func() error {
		r, err := extract.Extract(path, p.extract)
		if err != nil {
			return err
		}
		sum.Extracted = len(r.Records)
		sum.SkippedRows = r.SkippedRows
		sum.BadTimestamps = r.BadTimestamps
		sum.MissingCustomer = r.MissingCustomer
		recs = r.Records
		return nil
	})
	if err != nil {
		return sum, p.abort(&ExtractionError{Err: err})
	}
	metrics.RecordRows(p.job, "extracted", int64(sum.Extracted))
	metrics.RecordRows(p.job, "missing_customer", int64(sum.MissingCustomer))
	metrics.RecordRows(p.job, "bad_timestamps", int64(sum.BadTimestamps))

	// Clean. Pure transformation; cannot fail.
	p.enter(StateCleaning)
	_ = p.timed("clean", func() error {
		cleaned, dropped := clean.Clean(recs)
		recs = cleaned
		sum.Cleaned = len(cleaned)
		sum.CleanDropped = dropped
		return nil
	})
	metrics.RecordRows(p.job, "cleaned", int64(sum.Cleaned))
	metrics.RecordRows(p.job, "clean_dropped", int64(sum.CleanDropped))

	// Load.
	p.enter(StateLoading)
	err = p.timed("load", func() error {
		rows := schema.StagingRows(recs)
		recs = nil
		n, err := storage.LoadBatches(ctx, p.repo, schema.StagingTable, schema.StagingColumns, rows, p.batchSize)
		sum.Loaded = n
		return err
	})
	if err != nil {
		return sum, p.abort(&LoadError{Err: err})
	}
	metrics.RecordRows(p.job, "loaded", sum.Loaded)

	// Transform.
	p.enter(StateTransforming)
	err = p.timed("transform", func() error {
		n, err := warehouse.Transform(ctx, p.repo)
		sum.Transformed = n
		return err
	})
	if err != nil {
		return sum, p.abort(&TransformError{Err: err})
	}
	metrics.RecordRows(p.job, "transformed", sum.Transformed)

	// Dimensions.
	p.enter(StatePopulatingDimensions)
	err = p.timed("dimensions", func() error {
		counts, err := warehouse.PopulateDimensions(ctx, p.repo)
		sum.Dimensions = counts
		return err
	})
	if err != nil {
		return sum, p.abort(&DimensionError{Err: err})
	}

	// Facts.
	p.enter(StatePopulatingFacts)
	err = p.timed("facts", func() error {
		n, err := warehouse.PopulateFacts(ctx, p.repo)
		sum.Facts = n
		return err
	})
	if err != nil {
		return sum, p.abort(&FactError{Err: err})
	}
	metrics.RecordRows(p.job, "facts", sum.Facts)

	p.enter(StateDone)
	return sum, true
}

func (p *ETLPipeline) enter(s State) {
	p.state = s
	log.Printf("pipeline: %s", s)
}

func (p *ETLPipeline) abort(err error) bool {
	p.state = StateAborted
	p.err = err
	log.Printf("pipeline: aborted: %v", err)
	return false
}

// timed runs fn and records stage metrics.
func (p *ETLPipeline) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStage(p.job, stage, err, time.Since(start))
	return err
}
