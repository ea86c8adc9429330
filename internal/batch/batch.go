// Package batch runs palette extraction over many inputs with bounded concurrency.
package batch

import (
	"context"
	"runtime"
	"sync"
)

// Result is the outcome of processing one input.
type Result[T any] struct {
	Input string
	Value T
	Err   error
}

// Func processes a single input.
type Func[T any] func(ctx context.Context, input string) (T, error)

// Run calls fn for every input using at most workers goroutines and returns
// the results in input order. A failing input does not stop the others.
// Inputs not yet started when ctx is cancelled report ctx.Err().
func Run[T any](ctx context.Context, inputs []string, workers int, fn Func[T]) []Result[T] {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(inputs))

	results := make([]Result[T], len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for i := range jobs {
				results[i] = run(ctx, inputs[i], fn)
			}
		})
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func run[T any](ctx context.Context, input string, fn Func[T]) Result[T] {
	if err := ctx.Err(); err != nil {
		return Result[T]{Input: input, Err: err}
	}
	v, err := fn(ctx, input)
	return Result[T]{Input: input, Value: v, Err: err}
}

// Errors returns the results that failed.
func Errors[T any](results []Result[T]) []Result[T] {
	var failed []Result[T]
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
