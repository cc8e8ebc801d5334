// Command salesetl runs the full sales ETL: it extracts a delimited sales
// export, cleans it, loads it into the staging table, and drives the
// star-schema population sequence. The process exits 0 on a fully successful
// run and 1 otherwise.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"salesetl/internal/config"
	"salesetl/internal/extract"
	"salesetl/internal/metrics"
	"salesetl/internal/metrics/datadog"
	"salesetl/internal/metrics/prompush"
	"salesetl/internal/pipeline"
	"salesetl/internal/storage"

	// register all storage backends with the factory.
	_ "salesetl/internal/storage/all"
)

func main() {
	var (
		filePath    string
		kind        string
		dsn         string
		batchSize   int
		delimiter   string
		metricsFlag string
	)

	flag.StringVar(&filePath, "file", "", "path to the delimited sales export (required)")
	flag.StringVar(&kind, "storage", "", "storage backend kind (overrides STORAGE_KIND)")
	flag.StringVar(&dsn, "dsn", "", "database connection string (overrides STORAGE_DSN)")
	flag.IntVar(&batchSize, "batch-size", 0, "staging load batch size (overrides LOAD_BATCH_SIZE)")
	flag.StringVar(&delimiter, "delimiter", "", "field delimiter, default ','")
	flag.StringVar(&metricsFlag, "metrics-backend", "", "metrics backend: pushgateway, datadog, none (overrides METRICS_BACKEND)")
	flag.Parse()

	if filePath == "" {
		fatalf("usage: salesetl -file <path> [-storage kind] [-dsn ...]")
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("load config: %v", err)
	}
	if kind != "" {
		cfg.Storage.Kind = kind
	}
	if dsn != "" {
		cfg.Storage.DSN = dsn
	}
	if batchSize > 0 {
		cfg.Load.BatchSize = batchSize
	}
	if metricsFlag != "" {
		cfg.Metrics.Backend = metricsFlag
	}
	if err := cfg.Validate(); err != nil {
		fatalf("invalid config: %v", err)
	}

	setupMetrics(cfg)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()

	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.DSN()})
	if err != nil {
		fatalf("open storage (known kinds: %v): %v", storage.ListKinds(), err)
	}
	defer repo.Close()

	if cfg.Storage.AutoCreate {
		if err := storage.EnsureSchema(ctx, repo); err != nil {
			fatalf("ensure schema: %v", err)
		}
	}

	opts := []pipeline.Option{pipeline.WithBatchSize(cfg.Load.BatchSize)}
	if delimiter != "" {
		opts = append(opts, pipeline.WithExtractOptions(extract.Options{Comma: []rune(delimiter)[0]}))
	}

	p := pipeline.New(repo, cfg.Job, opts...)
	sum, ok := p.Run(ctx, filePath)

	log.Printf("summary: extracted=%d missing_customer=%d bad_timestamps=%d cleaned=%d loaded=%d transformed=%d facts=%d elapsed=%s",
		sum.Extracted, sum.MissingCustomer, sum.BadTimestamps, sum.Cleaned, sum.Loaded, sum.Transformed, sum.Facts, sum.Elapsed)

	if !ok {
		log.Printf("ETL run FAILED: %v", p.Err())
		os.Exit(1)
	}
	log.Printf("ETL run completed successfully in %s", sum.Elapsed.Truncate(time.Millisecond))
}

// setupMetrics installs the configured metrics backend; the default no-op
// backend stays in place when disabled or misconfigured.
func setupMetrics(cfg *config.Config) {
	switch cfg.Metrics.Backend {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: pushgateway init failed: %v; metrics disabled", err)
			return
		}
		metrics.SetBackend(b)
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{Addr: cfg.Metrics.StatsdAddr, Namespace: "salesetl."})
		if err != nil {
			log.Printf("metrics: datadog init failed: %v; metrics disabled", err)
			return
		}
		metrics.SetBackend(b)
	case "", "none":
		// metrics disabled; nop backend remains
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", cfg.Metrics.Backend)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
