package backend

import (
	"context"
	"sync"
)

// Job is a unit of work run on the queue goroutine.
type Job func(ctx context.Context)

// Queue runs submitted jobs one at a time, in submission order, on a single
// goroutine. Submit never blocks.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []Job
	closed  bool
	done    chan struct{}
}

// NewQueue constructs an idle queue. Call Run to start processing.
func NewQueue() *Queue {
	q := &Queue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Submit appends job to the queue. It reports false once the queue is closed.
func (q *Queue) Submit(job Job) bool {
	if job == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.pending = append(q.pending, job)
	q.cond.Signal()
	return true
}

// Run processes jobs until Close is called and the backlog is drained.
func (q *Queue) Run(ctx context.Context) {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		job := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		job(ctx)
	}
}

// Close stops accepting jobs. Run returns after the remaining jobs finish.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

// Done is closed when Run returns.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Do submits job and waits for it to finish. It returns false if the queue is
// closed or ctx ends first. Never call Do from inside a job.
func (q *Queue) Do(ctx context.Context, job Job) bool {
	finished := make(chan struct{})
	if !q.Submit(func(c context.Context) {
		defer close(finished)
		job(c)
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-ctx.Done():
		return false
	}
}
