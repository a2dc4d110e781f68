// Package ingest provides a small worker pool for parallelizing
// per-document extraction. Documents share no mutable state, so the
// only serialization point is the store's own write path.
package ingest

import (
	"context"
	"sync"
)

// Job is a unit of work submitted to the Pool. Errors are the job's own
// concern; collect them through a shared channel if the caller cares.
type Job func(ctx context.Context) error

// Pool runs jobs on a fixed number of goroutines.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	closeMu sync.Mutex
	closed  bool
}

// NewPool creates a pool with the given worker count and queue depth.
func NewPool(workers, queue int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &Pool{
		jobs:    make(chan Job, queue),
		workers: workers,
	}
}

// Start launches the worker goroutines. Workers drain jobs until the
// pool is closed or ctx is done.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					_ = job(ctx)
				}
			}
		}()
	}
}

// Submit enqueues a job. Returns ErrPoolClosed after Close.
func (p *Pool) Submit(job Job) error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.jobs <- job
	return nil
}

// Close stops accepting jobs and waits for in-flight work to finish.
func (p *Pool) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.closeMu.Unlock()
	p.wg.Wait()
}

// ErrPoolClosed is returned when Submit is called after Close.
var ErrPoolClosed = &PoolError{"worker pool closed"}

// PoolError is a typed error for pool operations.
type PoolError struct{ msg string }

func (e *PoolError) Error() string { return e.msg }
