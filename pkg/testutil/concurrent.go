// Package testutil holds shared helpers for the gateway's test suites.
package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	"privacygate/internal/sentinel"
)

// ConcurrentResult buckets the outcomes of RunConcurrent by error class.
type ConcurrentResult struct {
	Successes int32
	Errors    int32
	Conflicts int32
	NotFounds int32
}

// Total returns how many operations ran.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.Conflicts + r.NotFounds
}

// RunConcurrent runs fn from n goroutines at once and tallies the results,
// mapping sentinel conflict and not-found errors into their own buckets so
// race-oriented tests can assert on the split.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, errs, conflicts, notFounds atomic.Int32

	for i := range n {
		wg.Go(func() {
			switch err := fn(i); {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			case errors.Is(err, sentinel.ErrNotFound):
				notFounds.Add(1)
			default:
				errs.Add(1)
			}
		})
	}
	wg.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		Errors:    errs.Load(),
		Conflicts: conflicts.Load(),
		NotFounds: notFounds.Load(),
	}
}
