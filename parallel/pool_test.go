package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsEveryJob(t *testing.T) {
	for _, workers := range []int{1, 2, 8} {
		pool := Start(workers)

		var n atomic.Int64
		for range 100 {
			pool.Go(func() { n.Add(1) })
		}
		pool.Wait()

		assert.Equal(t, int64(100), n.Load(), "workers=%d", workers)
		assert.Equal(t, workers, pool.Workers())
	}
}

func TestPoolDefaultsToGOMAXPROCS(t *testing.T) {
	pool := Start(0)
	defer pool.Wait()
	assert.Equal(t, runtime.GOMAXPROCS(0), pool.Workers())
}

func TestSingleWorkerRunsInline(t *testing.T) {
	pool := Start(1)
	ran := false
	pool.Go(func() { ran = true })
	assert.True(t, ran)
	pool.Wait()
}

func TestWaitTwice(t *testing.T) {
	pool := Start(4)
	pool.Go(func() {})
	pool.Wait()
	assert.NotPanics(t, pool.Wait)
}
