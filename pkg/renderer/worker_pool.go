package renderer

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// WorkerPool renders the tiles of a frame in parallel with a bounded number
// of goroutines
type WorkerPool struct {
	tiles      *TileRenderer
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// A non-positive count uses the CPU count.
func NewWorkerPool(tiles *TileRenderer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		tiles:      tiles,
		numWorkers: numWorkers,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RenderTiles dispatches one task per tile and blocks until every tile of the
// frame has been written. Per-tile stats are merged in tile order.
func (wp *WorkerPool) RenderTiles(ctx context.Context, params FrameParams, camera *Camera, tiles []Tile, buf *AccumBuffer) (FrameStats, error) {
	perTile := make([]FrameStats, len(tiles))

	// Use errgroup and semaphore to limit concurrency.
	eg, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(wp.numWorkers))

	for i := range tiles {
		if err := sem.Acquire(ctx, 1); err != nil {
			_ = eg.Wait()
			return FrameStats{}, fmt.Errorf("while acquiring concurrency limiter semaphore: %w", err)
		}

		i := i
		eg.Go(func() error {
			defer sem.Release(1)
			perTile[i] = wp.tiles.RenderTile(params, camera, tiles[i].Bounds, buf)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return FrameStats{}, fmt.Errorf("while waiting for completion of errgroup: %w", err)
	}

	var stats FrameStats
	for _, s := range perTile {
		stats.Merge(s)
	}
	stats.finalize()
	return stats, nil
}
