package storage

import (
	"context"
	"errors"
	"testing"
)

// batchRepo records every batch it receives and can be scripted to fail at a
// given batch index.
type batchRepo struct {
	batches [][][]any
	failAt  int // 0-based batch index to fail at; -1 never fails
}

func (r *batchRepo) Kind() string { return "fake" }

func (r *batchRepo) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if r.failAt >= 0 && len(r.batches) == r.failAt {
		return 0, errors.New("connection reset")
	}
	cp := make([][]any, len(rows))
	copy(cp, rows)
	r.batches = append(r.batches, cp)
	return int64(len(rows)), nil
}

func (r *batchRepo) Exec(ctx context.Context, sql string) (int64, error) { return 0, nil }
func (r *batchRepo) Close()                                              {}

func makeRows(n int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{i}
	}
	return rows
}

var cols = []string{"id"}

func TestLoadBatches_BatchCount(t *testing.T) {
	cases := []struct {
		n, batchSize, wantBatches int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{7, 1000, 1},
	}
	for _, tc := range cases {
		repo := &batchRepo{failAt: -1}
		total, err := LoadBatches(context.Background(), repo, "t", cols, makeRows(tc.n), tc.batchSize)
		if err != nil {
			t.Fatalf("n=%d: LoadBatches error: %v", tc.n, err)
		}
		if total != int64(tc.n) {
			t.Fatalf("n=%d: total = %d, want %d", tc.n, total, tc.n)
		}
		if len(repo.batches) != tc.wantBatches {
			t.Fatalf("n=%d batchSize=%d: issued %d batches, want %d",
				tc.n, tc.batchSize, len(repo.batches), tc.wantBatches)
		}
	}
}

// TestLoadBatches_CoversAllRowsOnce verifies the union of all batches equals
// the input set, in order, with no duplicates or omissions.
func TestLoadBatches_CoversAllRowsOnce(t *testing.T) {
	repo := &batchRepo{failAt: -1}
	if _, err := LoadBatches(context.Background(), repo, "t", cols, makeRows(23), 5); err != nil {
		t.Fatalf("LoadBatches error: %v", err)
	}

	var seen []int
	for _, b := range repo.batches {
		for _, row := range b {
			seen = append(seen, row[0].(int))
		}
	}
	if len(seen) != 23 {
		t.Fatalf("union has %d rows, want 23", len(seen))
	}
	for i, v := range seen {
		if v != i {
			t.Fatalf("row %d out of order or duplicated: got %d", i, v)
		}
	}
}

// TestLoadBatches_PartialFailureKeepsPrefix verifies that when batch k fails,
// batches 0..k-1 stay committed and the load reports failure.
func TestLoadBatches_PartialFailureKeepsPrefix(t *testing.T) {
	repo := &batchRepo{failAt: 2}
	total, err := LoadBatches(context.Background(), repo, "t", cols, makeRows(50), 10)
	if err == nil {
		t.Fatalf("expected error from failing batch")
	}
	if len(repo.batches) != 2 {
		t.Fatalf("committed %d batches before failure, want 2", len(repo.batches))
	}
	if total != 20 {
		t.Fatalf("total = %d, want 20 (two committed batches)", total)
	}
}

func TestLoadBatches_InvalidBatchSize(t *testing.T) {
	if _, err := LoadBatches(context.Background(), &batchRepo{failAt: -1}, "t", cols, makeRows(1), 0); err == nil {
		t.Fatalf("expected error for batchSize=0")
	}
}
