// Package worker provides a fixed-size pool for fanning independent
// image analyses out across CPUs. The pipeline itself stays sequential
// per image; parallelism happens only at the image level.
package worker

import (
	"runtime"
	"sync"
)

// Pool manages a fixed set of goroutines consuming submitted jobs.
type Pool struct {
	workers  int
	jobQueue chan func()
	once     sync.Once
	done     sync.WaitGroup
}

// NewPool creates a pool with the specified number of workers, defaulting
// to the CPU count when workers <= 0.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start launches the workers. Subsequent calls are no-ops.
func (p *Pool) Start() {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.done.Add(1)
			go p.worker()
		}
	})
}

func (p *Pool) worker() {
	defer p.done.Done()
	for job := range p.jobQueue {
		job()
	}
}

// Submit enqueues a job, blocking when the queue is full.
func (p *Pool) Submit(job func()) {
	p.jobQueue <- job
}

// Close stops accepting jobs and waits for in-flight ones to finish.
func (p *Pool) Close() {
	close(p.jobQueue)
	p.done.Wait()
}
