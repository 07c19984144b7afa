package sync

import (
	"context"
	"time"

	"github.com/tecbunny/backend/internal/domain/integration"
)

// BatchOptions controls chunking and pacing for a batch run
type BatchOptions struct {
	// BatchSize is the chunk size; non-positive falls back to the default
	BatchSize int
	// Delay is slept between chunks, never after the final one. The external
	// API is rate limited per caller, so chunks are paced rather than burst.
	Delay time.Duration
}

// ItemFunc processes a single item and returns its outcome. Implementations
// must fill ItemDetail.LocalID even on error so failures stay attributable.
type ItemFunc[T any] func(ctx context.Context, item T) (integration.ItemDetail, error)

// ProcessInBatches splits items into consecutive fixed-size chunks and invokes
// fn for each item sequentially. A failing item is recorded and never aborts
// its chunk or subsequent chunks. Items keep their enumeration order across
// chunks. There is no built-in cancellation: a run completes unless an item's
// own call times out, which counts as that item's failure.
func ProcessInBatches[T any](ctx context.Context, items []T, opts BatchOptions, fn ItemFunc[T]) *integration.SyncResult {
	result := integration.NewSyncResult()
	if len(items) == 0 {
		return result
	}

	size := opts.BatchSize
	if size <= 0 {
		size = integration.DefaultBatchSize
	}

	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))

		for i := start; i < end; i++ {
			detail, err := fn(ctx, items[i])
			if err != nil {
				result.RecordFailure(detail.LocalID, err.Error())
				continue
			}
			if detail.Status == "" {
				detail.Status = integration.ItemStatusSynced
			}
			result.Synced++
			result.Details = append(result.Details, detail)
		}

		if end < len(items) && opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
	}

	return result
}
