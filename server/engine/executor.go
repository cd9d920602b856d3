// connection executor: one goroutine per accepted connection
package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Executor launches the work for one accepted connection. Go must not block
// the accept loop unless the executor applies admission control.
type Executor interface {
	Go(ctx context.Context, fn func()) error
	Wait()
}

// GroupExecutor runs every fn on its own goroutine and can wait for all of
// them. With a limit > 0, Go waits for a free slot first.
type GroupExecutor struct {
	g   errgroup.Group
	sem *semaphore.Weighted // nil means unbounded
}

func NewExecutor(limit int) *GroupExecutor {
	e := &GroupExecutor{}
	if limit > 0 {
		e.sem = semaphore.NewWeighted(int64(limit))
	}
	return e
}

// Go returns an error only when ctx ends while waiting for a slot.
func (e *GroupExecutor) Go(ctx context.Context, fn func()) error {
	if e.sem != nil {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	}

	e.g.Go(func() error {
		if e.sem != nil {
			defer e.sem.Release(1)
		}
		fn()
		return nil
	})
	return nil
}

// Wait blocks until every launched fn has returned.
func (e *GroupExecutor) Wait() {
	_ = e.g.Wait()
}
