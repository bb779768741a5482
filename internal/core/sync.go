package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Sync defaults, used when SyncOptions fields are zero.
const (
	DefaultSyncBatchSize     = 20
	DefaultSyncMaxConcurrent = 5
	DefaultSyncTimeout       = 2 * time.Minute
)

const (
	syncErrorMessage = "Network or Sync Error"
	noResultMessage  = "No result returned for row"
)

// BatchCreator persists a batch of rows and reports per-row outcomes.
// A returned error means the whole batch failed in transport.
type BatchCreator interface {
	CreateBatch(ctx context.Context, items []SyncItem) ([]SyncResult, error)
}

// SyncOptions tunes batch fan-out.
type SyncOptions struct {
	BatchSize     int
	MaxConcurrent int
	Timeout       time.Duration
}

func (o SyncOptions) withDefaults() SyncOptions {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultSyncBatchSize
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultSyncMaxConcurrent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultSyncTimeout
	}
	return o
}

// SyncReport summarises one sync run.
type SyncReport struct {
	Attempted     int `json:"attempted"`
	Succeeded     int `json:"succeeded"`
	Failed        int `json:"failed"`
	FailedBatches int `json:"failedBatches"`
}

// syncSession claims every eligible row, sends them in chunks with bounded
// concurrency and merges results back as each batch returns. A failed batch
// only affects its own rows.
func syncSession(ctx context.Context, sess *ImportSession, creator BatchCreator, opts SyncOptions) SyncReport {
	opts = opts.withDefaults()

	items := sess.claimForSync()
	report := SyncReport{Attempted: len(items)}
	if len(items) == 0 {
		return report
	}

	logger := slog.Default().With("session_id", sess.ID)
	logger.Info("sync started", "rows", len(items), "batch_size", opts.BatchSize)
	start := time.Now()

	batches := chunkItems(items, opts.BatchSize)
	outcomes := make([]batchOutcome, len(batches))

	g := new(errgroup.Group)
	g.SetLimit(opts.MaxConcurrent)

	for i, batch := range batches {
		g.Go(func() error {
			outcomes[i] = runBatch(ctx, sess, creator, batch)
			if outcomes[i].err != nil {
				logger.Warn("sync batch failed", "batch", i, "rows", len(batch), "error", outcomes[i].err)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		report.Succeeded += o.succeeded
		report.Failed += o.failed
		if o.err != nil {
			report.FailedBatches++
		}
	}

	sess.finishSync()

	logger.Info("sync completed",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"failed_batches", report.FailedBatches,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report
}

type batchOutcome struct {
	succeeded int
	failed    int
	err       error
}

func runBatch(ctx context.Context, sess *ImportSession, creator BatchCreator, batch []SyncItem) batchOutcome {
	results, err := creator.CreateBatch(ctx, batch)
	if err != nil {
		sess.failPending(batch, syncErrorMessage)
		return batchOutcome{failed: len(batch), err: fmt.Errorf("create batch: %w", err)}
	}

	sess.applyResults(results)
	sess.failPending(batch, noResultMessage)

	var out batchOutcome
	answered := make(map[int]bool, len(results))
	for _, r := range results {
		answered[r.Index] = true
		if r.Success {
			out.succeeded++
		} else {
			out.failed++
		}
	}
	for _, it := range batch {
		if !answered[it.Index] {
			out.failed++
		}
	}
	return out
}

// chunkItems splits items into consecutive slices of at most size.
func chunkItems(items []SyncItem, size int) [][]SyncItem {
	var chunks [][]SyncItem
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
