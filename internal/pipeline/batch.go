package pipeline

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultWorkers bounds batch concurrency when the caller does not.
const DefaultWorkers = 4

// BatchItem pairs one conversion with its error.
type BatchItem struct {
	Result Result
	Err    error
}

// RunBatch converts boards with bounded concurrency. Results come back in
// input order; one bad board does not stop the rest. opts.Output must be
// empty when converting more than one board.
func RunBatch(ctx context.Context, paths []string, opts Options, workers int, log *slog.Logger) []BatchItem {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	items := make([]BatchItem, len(paths))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		select {
		case <-ctx.Done():
			items[i] = BatchItem{Result: Result{Input: path}, Err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := Convert(path, opts, log)
			if err != nil {
				log.Error("conversion failed", "path", path, "error", err)
			}
			items[i] = BatchItem{Result: res, Err: err}
		}(i, path)
	}

	wg.Wait()
	return items
}
