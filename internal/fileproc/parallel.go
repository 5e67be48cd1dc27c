// Package fileproc runs per-file work across a bounded goroutine pool.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// ProcessingError is one file's failure.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error { return e.Err }

// ProcessingErrors collects failures across a batch. Safe for concurrent
// Add calls.
type ProcessingErrors struct {
	mu     sync.Mutex
	Errors []ProcessingError
}

// Add appends one failure.
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors reports whether anything failed.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
	}
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *ProcessingErrors) Unwrap() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]error, len(e.Errors))
	for i := range e.Errors {
		out[i] = e.Errors[i]
	}
	return out
}

// DefaultWorkerMultiplier scales NumCPU into the pool size. 2x covers the
// mixed I/O and CGO parse workload.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called once per path, whether it succeeded or not.
type ProgressFunc func()

// MapPaths runs fn over every path on a bounded pool and returns the
// successful results in input order. A failed path is recorded and skipped;
// siblings always complete. Cancellation is honored between files: paths
// not yet started when ctx ends are recorded with ctx's error.
func MapPaths[T any](ctx context.Context, paths []string, fn func(context.Context, string) (T, error), onProgress ProgressFunc) ([]T, *ProcessingErrors) {
	return MapPathsN(ctx, paths, 0, fn, onProgress)
}

// MapPathsN is MapPaths with an explicit worker cap. maxWorkers <= 0 means
// NumCPU times DefaultWorkerMultiplier.
func MapPathsN[T any](ctx context.Context, paths []string, maxWorkers int, fn func(context.Context, string) (T, error), onProgress ProgressFunc) ([]T, *ProcessingErrors) {
	if len(paths) == 0 {
		return nil, nil
	}
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	// Indexed slots keep results in input order without a collect mutex:
	// each goroutine owns exactly one slot.
	results := make([]T, len(paths))
	done := make([]bool, len(paths))
	errs := &ProcessingErrors{}

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i, path := range paths {
		p.Go(func() {
			defer func() {
				if onProgress != nil {
					onProgress()
				}
			}()

			select {
			case <-ctx.Done():
				errs.Add(path, ctx.Err())
				return
			default:
			}

			result, err := fn(ctx, path)
			if err != nil {
				errs.Add(path, err)
				return
			}
			results[i] = result
			done[i] = true
		})
	}
	p.Wait()

	out := make([]T, 0, len(paths))
	for i := range results {
		if done[i] {
			out = append(out, results[i])
		}
	}
	if !errs.HasErrors() {
		return out, nil
	}
	return out, errs
}
