package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelizeCoversEveryIndexOnce(t *testing.T) {
	for _, items := range []int{1, 7, 1000, 4099} {
		hits := make([]int32, items)
		Parallelize(items, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("items=%d: index %d visited %d times", items, i, h)
			}
		}
	}
}

func TestParallelizeWorkers(t *testing.T) {
	var chunks int32
	ParallelizeWorkers(10, 3, func(start, end int) {
		atomic.AddInt32(&chunks, 1)
	})
	assert.Equal(t, int32(3), chunks)

	chunks = 0
	ParallelizeWorkers(2, 8, func(start, end int) {
		atomic.AddInt32(&chunks, 1)
	})
	assert.Equal(t, int32(2), chunks, "never more workers than items")
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	var calls int
	ParallelizeWithThreshold(10, DefaultThreshold, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, 1, calls)

	calls = 0
	ParallelizeWithThreshold(0, DefaultThreshold, func(start, end int) { calls++ })
	assert.Zero(t, calls, "empty ranges do not invoke fn")
}
