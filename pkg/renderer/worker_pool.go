package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	TaskID int // index into the tile grid
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Tile   *Tile
	Stats  RenderStats
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Process renders every task on at most numWorkers goroutines. onResult is called
// from a single goroutine in completion order, so it needs no locking. The first
// render error or context cancellation stops the remaining tasks.
func (wp *WorkerPool) Process(ctx context.Context, tasks []TileTask,
	render func(ctx context.Context, task TileTask) (TileResult, error),
	onResult func(TileResult)) error {

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	results := make(chan TileResult, len(tasks))
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for result := range results {
			if onResult != nil {
				onResult(result)
			}
		}
	}()

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := render(gctx, task)
			if err != nil {
				return err
			}
			results <- result
			return nil
		})
	}

	err := g.Wait()
	close(results)
	<-dispatched
	return err
}
