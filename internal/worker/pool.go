// worker/pool.go
package worker

import "sync"

type Job[T any] func() T

// Result carries a job's output together with the position it was submitted at.
type Result[T any] struct {
	Index  int
	Output T
}

type Pool[T any] struct {
	jobs      chan jobWrapper[T]
	results   chan Result[T]
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type jobWrapper[T any] struct {
	index int
	fn    Job[T]
}

// NewPool starts workerCount workers. Results is closed once Close has been
// called and every submitted job has finished.
func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}

	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		output := job.fn()
		p.results <- Result[T]{
			Index:  job.index,
			Output: output,
		}
	}
}

// Submit queues fn under the given index. It must not be called after Close.
func (p *Pool[T]) Submit(index int, fn Job[T]) {
	p.jobs <- jobWrapper[T]{index: index, fn: fn}
}

// Close stops accepting jobs; workers drain the queue and exit.
func (p *Pool[T]) Close() {
	p.closeOnce.Do(func() { close(p.jobs) })
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Map runs fn over items on at most width workers and returns the outputs in
// the order of items, whatever order the jobs complete in.
func Map[In, Out any](width int, items []In, fn func(i int, item In) Out) []Out {
	out := make([]Out, len(items))
	if len(items) == 0 {
		return out
	}
	if width < 1 {
		width = 1
	}
	if width > len(items) {
		width = len(items)
	}

	// Buffers hold every job and result, so Submit never blocks on a reader.
	p := NewPool[Out](width, len(items))
	for i, item := range items {
		p.Submit(i, func() Out { return fn(i, item) })
	}
	p.Close()

	for r := range p.Results() {
		out[r.Index] = r.Output
	}
	return out
}
