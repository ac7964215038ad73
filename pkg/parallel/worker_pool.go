// Package parallel runs independent detection jobs on a bounded set of
// goroutines.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/dd0wney/neochain/pkg/logging"
)

// MaxWorkers bounds the pool size.
const MaxWorkers = 1024

var (
	// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers
	ErrTooManyWorkers = errors.New("worker count exceeds maximum")

	// ErrJobPanicked wraps a panic raised by a job
	ErrJobPanicked = errors.New("job panicked")
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	logger    logging.Logger
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // guards taskQueue against close during send
	closed    bool         // protected by mu
}

// NewWorkerPool starts a pool. A non-positive count means one worker per CPU.
func NewWorkerPool(workers int, logger logging.Logger) (*WorkerPool, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
		logger:    logging.OrNop(logger).With(logging.Component("parallel")),
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool, nil
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					wp.logger.Error("worker panic recovered", logging.Any("panic", r))
				}
			}()
			task()
		}()
	}
}

// Submit queues a task. It returns false once the pool is closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.taskQueue <- task
	return true
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// ForEach calls fn for every index in [0, n) on a pool of the given size and
// returns the joined errors. Indexes not started before ctx is done fail with
// ctx.Err().
func ForEach(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error, logger logging.Logger) error {
	if n == 0 {
		return nil
	}
	if workers <= 0 || workers > n {
		workers = min(n, runtime.NumCPU())
	}

	pool, err := NewWorkerPool(workers, logger)
	if err != nil {
		return err
	}

	errs := make([]error, n)
	for i := 0; i < n; i++ {
		pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("%w: job %d: %v", ErrJobPanicked, i, r)
				}
			}()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = fn(ctx, i)
		})
	}
	pool.Close()
	return errors.Join(errs...)
}
