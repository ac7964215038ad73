package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolBasicOperations(t *testing.T) {
	pool, err := NewWorkerPool(4, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool() error = %v", err)
	}

	var executed atomic.Bool
	if !pool.Submit(func() { executed.Store(true) }) {
		t.Error("Task submission failed")
	}
	pool.Close()

	if !executed.Load() {
		t.Error("Task was not executed")
	}
}

func TestWorkerPoolSize(t *testing.T) {
	if _, err := NewWorkerPool(MaxWorkers+1, nil); !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("error = %v, want ErrTooManyWorkers", err)
	}

	pool, err := NewWorkerPool(0, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool(0) error = %v", err)
	}
	defer pool.Close()
	if pool.Workers() < 1 {
		t.Errorf("Workers() = %d, want at least 1", pool.Workers())
	}
}

func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool, _ := NewWorkerPool(10, nil)

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() {
				atomic.AddInt64(&counter, 1)
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// Closing while submitters are running must not panic.
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool, _ := NewWorkerPool(4, nil)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pool.Submit(func() {
						time.Sleep(time.Millisecond)
					})
				}
			}()
		}

		time.Sleep(5 * time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool, _ := NewWorkerPool(4, nil)
	pool.Close()
	pool.Close()

	if pool.Submit(func() { t.Error("This task should never execute") }) {
		t.Error("Task submission after close should return false")
	}
}

func TestWorkerPoolSurvivesPanic(t *testing.T) {
	pool, _ := NewWorkerPool(1, nil)

	var executed atomic.Bool
	pool.Submit(func() { panic("boom") })
	pool.Submit(func() { executed.Store(true) })
	pool.Close()

	if !executed.Load() {
		t.Error("worker stopped after a panic")
	}
}

func TestForEach(t *testing.T) {
	results := make([]int, 20)
	err := ForEach(context.Background(), 4, len(results), func(_ context.Context, i int) error {
		results[i] = i * i
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("ForEach() error = %v", err)
	}
	for i, got := range results {
		if got != i*i {
			t.Errorf("results[%d] = %d, want %d", i, got, i*i)
		}
	}
}

func TestForEach_JoinsErrors(t *testing.T) {
	errOdd := errors.New("odd")
	err := ForEach(context.Background(), 2, 5, func(_ context.Context, i int) error {
		if i%2 == 1 {
			return errOdd
		}
		if i == 4 {
			panic("four")
		}
		return nil
	}, nil)

	if !errors.Is(err, errOdd) {
		t.Errorf("error = %v, want errOdd", err)
	}
	if !errors.Is(err, ErrJobPanicked) {
		t.Errorf("error = %v, want ErrJobPanicked", err)
	}
}

func TestForEach_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := ForEach(ctx, 2, 3, func(context.Context, int) error {
		calls.Add(1)
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if calls.Load() != 0 {
		t.Errorf("fn called %d times after cancel", calls.Load())
	}
}

func TestForEach_Empty(t *testing.T) {
	if err := ForEach(context.Background(), 4, 0, nil, nil); err != nil {
		t.Errorf("ForEach() error = %v", err)
	}
}
