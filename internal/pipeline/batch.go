package pipeline

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used by RunBatch when workers is not positive
const DefaultWorkers = 4

// BatchItem is the outcome for one input of a batch
type BatchItem struct {
	Input  Input
	Result *Result
	Err    error
}

// RunBatch runs every input with at most workers in flight. Items keep the
// order of inputs. A failed document is reported in its own Err and never
// stops the others; cancelling ctx fails the documents not yet finished.
func RunBatch(ctx context.Context, inputs []Input, opts Options, workers int) []BatchItem {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	items := make([]BatchItem, len(inputs))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, in := range inputs {
		items[i].Input = in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			result, err := Run(ctx, in, opts)
			if err != nil {
				if opts.Verbose {
					log.Printf("[VERBOSE] [pipeline] %s failed: %v", in.Name(), err)
				}
				items[i].Err = err
				return nil
			}
			items[i].Result = result
			return nil
		})
	}
	_ = g.Wait()

	return items
}

// Failed returns the items whose run returned an error
func Failed(items []BatchItem) []BatchItem {
	var failed []BatchItem
	for _, item := range items {
		if item.Err != nil {
			failed = append(failed, item)
		}
	}
	return failed
}
