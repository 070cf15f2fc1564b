package cmdblock

import (
	"runtime"
	"sync"

	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/interrupt"
)

// RunOptions configures RunItems.
type RunOptions struct {
	// MaxWorkers bounds concurrency; 0 means runtime.GOMAXPROCS(0).
	MaxWorkers int
}

// RunResult is the outcome of draining one item stream through RunItems:
// the processed/not-processed partition (in the order items completed,
// for Processed; in work-queue order for NotProcessed), each item's own
// result or error, and whether the interrupt signal was what stopped the
// stream early.
type RunResult[R any] struct {
	Processed    []ident.ItemID
	NotProcessed []ident.ItemID
	Results      map[ident.ItemID]R
	Errors       map[ident.ItemID]error
	Interrupted  bool
}

// RunItems drains itemIDs through a bounded goroutine pool, one call to
// worker per item, polling interruptHandle before taking each item off
// the queue (spec §5: "Inside a block, firing it causes the item stream
// to stop issuing new items; in-flight items run to completion"). This
// generalizes the teacher's executeLevelParallel worker pool
// (pkg/engine/scheduler.go) from a closed work queue of known size to one
// that additionally drains early on interrupt, and replaces its
// ctx.Done()-only cancellation with interruptHandle.Triggered() so a block can
// be interrupted independently of any context deadline.
//
// Per-item work never races with itself: each item is handed to exactly
// one worker goroutine for its whole lifecycle call, honoring spec §5's
// "Per item within a block: sequential" guarantee. Items run concurrently
// with each other, with no ordering guarantee among them (spec §5).
func RunItems[R any](
	interruptHandle *interrupt.Handle,
	itemIDs []ident.ItemID,
	worker func(id ident.ItemID) (R, error),
	opts RunOptions,
) RunResult[R] {
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(itemIDs) {
		workers = len(itemIDs)
	}
	if workers == 0 {
		return RunResult[R]{Results: map[ident.ItemID]R{}, Errors: map[ident.ItemID]error{}}
	}

	queue := make(chan ident.ItemID, len(itemIDs))
	for _, id := range itemIDs {
		queue <- id
	}
	close(queue)

	var mu sync.Mutex
	results := make(map[ident.ItemID]R, len(itemIDs))
	errs := make(map[ident.ItemID]error)
	var processed []ident.ItemID

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for id := range queue {
				if interruptHandle != nil && interruptHandle.Triggered() {
					continue
				}

				r, err := worker(id)

				mu.Lock()
				if err != nil {
					errs[id] = err
				} else {
					results[id] = r
				}
				processed = append(processed, id)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	notProcessed := make([]ident.ItemID, 0, len(itemIDs)-len(processed))
	processedSet := make(map[ident.ItemID]bool, len(processed))
	for _, id := range processed {
		processedSet[id] = true
	}
	for _, id := range itemIDs {
		if !processedSet[id] {
			notProcessed = append(notProcessed, id)
		}
	}

	return RunResult[R]{
		Processed:    processed,
		NotProcessed: notProcessed,
		Results:      results,
		Errors:       errs,
		Interrupted:  interruptHandle != nil && interruptHandle.Triggered(),
	}
}
