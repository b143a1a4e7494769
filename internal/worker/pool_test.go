package worker

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllJobs(t *testing.T) {
	pool := NewPool(4)
	pool.Start()

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		})
	}
	wg.Wait()
	pool.Close()

	if counter != 100 {
		t.Errorf("Expected 100 jobs executed, got %d", counter)
	}
}

func TestPoolDefaultsWorkerCount(t *testing.T) {
	pool := NewPool(0)
	if pool.workers <= 0 {
		t.Errorf("Expected positive default worker count, got %d", pool.workers)
	}
}

func TestPoolStartIsIdempotent(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Start()

	done := make(chan struct{})
	pool.Submit(func() { close(done) })
	<-done
	pool.Close()
}

func TestPoolCloseWaitsForInflightJobs(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	var finished atomic.Bool
	pool.Submit(func() { finished.Store(true) })
	pool.Close()

	if !finished.Load() {
		t.Error("Close returned before the submitted job finished")
	}
}
