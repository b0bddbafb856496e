package concurrent

import (
	"runtime"
	"sync"
)

// JobFunc maps one job of type T to its result of type G.
type JobFunc[T any, G any] func(job T) G

// WorkerPool fans a batch of jobs out over a fixed number of goroutines.
// Usage: AddJob the whole batch, Close the queue, Start, Wait, then drain
// CollectResults. Both channels are sized for the batch, the results are
// only read after every worker returned.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

// NewWorkerPool sizes both channels at jobQueueSize. Non-positive
// numWorkers falls back to runtime.NumCPU().
func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job)
	}
}

// Start launches the workers on the queued jobs.
func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	wp.wg.Add(wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker(jobFunc)
	}
}

// Wait blocks until every worker drained the queue, then closes the result
// channel so CollectResults can be ranged over.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

// Close marks the job queue complete. Must be called before Wait or the
// workers never return.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}
