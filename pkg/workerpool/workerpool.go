// Package workerpool runs fire-and-forget or result-returning tasks on a
// fixed number of goroutines fed by a bounded queue.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when submitting to a pool that has been closed.
var ErrClosed = errors.New("workerpool: closed")

// ErrQueueFull is returned by TrySubmit when the queue has no free slot.
var ErrQueueFull = errors.New("workerpool: queue full")

// Task is a unit of work. Fn must be safe to run concurrently with other tasks.
// ResultC, when set, receives exactly one Result; it should be buffered.
type Task struct {
	Fn      func(ctx context.Context) (any, error)
	ResultC chan Result
}

type Result struct {
	Value any
	Err   error
}

type WorkerPool struct {
	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	closed  bool
	closing chan struct{}
	senders sync.WaitGroup
	wg      sync.WaitGroup
}

// New starts workerCount workers reading from a queue of queueSize tasks.
func New(workerCount, queueSize int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	wp := &WorkerPool{
		tasks:   make(chan Task, queueSize),
		ctx:     ctx,
		cancel:  cancel,
		closing: make(chan struct{}),
	}
	wp.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		res, err := task.Fn(wp.ctx)
		if task.ResultC != nil {
			task.ResultC <- Result{Value: res, Err: err}
		}
	}
}

// Submit enqueues task, blocking until there is room, ctx is done or the pool
// is closed.
func (wp *WorkerPool) Submit(ctx context.Context, task Task) error {
	wp.mu.RLock()
	if wp.closed {
		wp.mu.RUnlock()
		return ErrClosed
	}
	wp.senders.Add(1)
	wp.mu.RUnlock()
	defer wp.senders.Done()

	select {
	case wp.tasks <- task:
		return nil
	case <-wp.closing:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit enqueues task without blocking.
func (wp *WorkerPool) TrySubmit(task Task) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrClosed
	}
	select {
	case wp.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting tasks and waits for queued ones to finish or ctx to
// expire. Tasks still running after ctx expires see their context cancelled.
func (wp *WorkerPool) Close(ctx context.Context) error {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return nil
	}
	wp.closed = true
	close(wp.closing)
	wp.mu.Unlock()

	// Blocked submitters see closing and return before the queue is closed.
	wp.senders.Wait()
	close(wp.tasks)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.cancel()
		return nil
	case <-ctx.Done():
		wp.cancel()
		return ctx.Err()
	}
}
