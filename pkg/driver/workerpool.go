package driver

import (
	"context"
	"errors"
	"sync"
)

// Job is one unit of work: a single word's significance test. Jobs share no
// mutable state; each writes into its own result slot.
type Job func(ctx context.Context)

// ErrPoolClosed is returned when a submit races a Close.
var ErrPoolClosed = errors.New("driver: worker pool closed")

// workerPool runs jobs on a fixed number of goroutines. It is built for a
// single producer: the driver submits every (trial, word) unit, then calls
// Close to wait for the workers to drain.
type workerPool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int

	mu     sync.Mutex
	closed bool
}

func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	return &workerPool{
		jobs:    make(chan Job, workers*2),
		workers: workers,
	}
}

// start launches the worker goroutines. They exit when ctx is canceled or
// the job channel is closed.
func (p *workerPool) start(ctx context.Context) {
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
					job(ctx)
				}
			}
		}()
	}
}

// submit enqueues a job but returns promptly when ctx is canceled.
func (p *workerPool) submit(ctx context.Context, job Job) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	jobs := p.jobs
	p.mu.Unlock()

	select {
	case jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting jobs and waits for the workers to finish whatever
// was already queued.
func (p *workerPool) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
