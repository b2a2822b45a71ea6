// Package async provides the in-process worker queue behind fire-and-forget
// document processing. The upload request enqueues a task and returns; the
// task runs on a worker goroutine that outlives the request, with the
// document store as the only coordination point.
package async

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("task queue is full")

type Task func(ctx context.Context)

type Queue struct {
	tasks  chan Task
	wg     sync.WaitGroup
	logger *zap.Logger
}

func NewQueue(workers, buffer int, logger *zap.Logger) *Queue {
	q := &Queue{
		tasks:  make(chan Task, buffer),
		logger: logger,
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}

	return q
}

// Submit enqueues a task without waiting for it to run. A full queue is
// reported to the caller instead of blocking the request path.
func (q *Queue) Submit(task Task) error {
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for task := range q.tasks {
		q.run(task)
	}
}

func (q *Queue) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("Task panicked", zap.Any("panic", r))
		}
	}()

	// Tasks get a fresh background context: they must not be cancelled when
	// the request that enqueued them completes.
	task(context.Background())
}

// Shutdown stops accepting tasks and waits for in-flight ones, up to the
// context deadline.
func (q *Queue) Shutdown(ctx context.Context) {
	close(q.tasks)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		q.logger.Warn("Shutdown timed out with tasks still running")
	}
}
