// This file implements the generic batched loader: it slices a cleaned row
// set into fixed-size batches and writes them through a Repository, one batch
// at a time, in order, committing after every batch.
//
// Logging: on every successful flush a concise progress line is emitted with
// running totals and instantaneous rows/sec since the previous flush.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// LoadBatches writes rows into table in batches of batchSize. Batches are
// issued sequentially and each commits independently, so a failure at batch k
// leaves batches 0..k-1 durably committed and nothing rolled back; the caller
// must treat a failed load as "some prefix of batches succeeded".
//
// Returns the total number of rows the backend reported inserted and the
// first error encountered.
func LoadBatches(
	ctx context.Context,
	repo Repository,
	table string,
	columns []string,
	rows [][]any,
	batchSize int,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if repo == nil {
		return 0, fmt.Errorf("repo must not be nil")
	}

	var (
		total       int64
		batches     int64
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	for off := 0; off < len(rows); off += batchSize {
		end := off + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		n, err := repo.InsertRows(ctx, table, columns, rows[off:end])
		total += n
		if err != nil {
			log.Printf("loader: batch insert failed after=%d total=%d err=%v", n, total, err)
			return total, err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(total-lastTotal) / sinceLast.Seconds()
		}
		log.Printf(
			"batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s since_last=%s",
			batches,
			rps,
			n,
			total,
			now.Sub(start).Truncate(time.Millisecond),
			sinceLast.Truncate(time.Millisecond),
		)
		lastFlushTS = now
		lastTotal = total
	}

	log.Printf("loader: done batches=%d total_inserted=%d", batches, total)
	return total, nil
}
