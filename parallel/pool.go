package parallel

import (
	"runtime"
	"sync"
)

// Pool runs submitted jobs on a fixed set of goroutines. A pool with a single
// worker runs every job inline in Go.
type Pool struct {
	wg      sync.WaitGroup
	work    chan func()
	workers int
	close   func()
}

// Start launches numWorkers workers, GOMAXPROCS when numWorkers < 1.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		workers: numWorkers,
		close:   func() {},
	}
	if numWorkers == 1 {
		return pool
	}

	pool.work = make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range pool.work {
				f()
			}
		})
	}
	pool.close = sync.OnceFunc(func() { close(pool.work) })

	return pool
}

// Go queues f, blocking while every worker is busy and the queue is full.
// It must not be called after Wait.
func (p *Pool) Go(f func()) {
	if p.work == nil {
		f()
		return
	}
	p.work <- f
}

// Wait stops accepting work and blocks until every queued job returned.
func (p *Pool) Wait() {
	p.close()
	p.wg.Wait()
}

func (p *Pool) Workers() int {
	return p.workers
}
