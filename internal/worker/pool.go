package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task holds one processed input with its result or error.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc processes a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs inputs through a fixed number of workers. Used to parse many
// scene scripts concurrently; each parse is independent, so ordering of
// results follows the input slice.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a pool with at least one worker.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, process: fn}
}

// Execute runs all inputs and returns results in input order. Cancelling
// the context stops dispatch; in-flight work finishes.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	inputCh := make(chan int, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-inputCh:
					if !ok {
						return
					}
					result, err := p.process(ctx, inputs[idx])
					results[idx] = Task[T, R]{Input: inputs[idx], Result: result, Err: err}
					if err != nil {
						log.Error().Err(err).Int("worker", workerID).Int("index", idx).Msg("Task failed")
					}
				}
			}
		}(w)
	}

	for i := range inputs {
		select {
		case <-ctx.Done():
		case inputCh <- i:
		}
	}
	close(inputCh)

	wg.Wait()
	return results
}
