package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task pairs one input with its result.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc is the function signature for processing a single task.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs a ProcessFunc over a slice of inputs with bounded concurrency.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a new worker pool.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// Execute runs all inputs through the pool. Results are returned in input
// order. Inputs not started before ctx is cancelled carry ctx.Err().
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	for i := range inputs {
		results[i].Input = inputs[i]
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < min(p.workers, len(inputs)); w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range indexes {
				result, err := p.process(ctx, inputs[idx])
				results[idx].Result = result
				results[idx].Err = err
				if err != nil {
					log.Debug().Err(err).Int("worker", workerID).Int("index", idx).Msg("Task failed")
				}
			}
		}(w)
	}

	next := 0
feed:
	for ; next < len(inputs); next++ {
		select {
		case <-ctx.Done():
			break feed
		case indexes <- next:
		}
	}
	close(indexes)
	wg.Wait()

	for i := next; i < len(inputs); i++ {
		results[i].Err = ctx.Err()
	}
	return results
}
