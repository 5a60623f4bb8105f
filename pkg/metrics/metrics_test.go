package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAndStats(t *testing.T) {
	r := NewRegistry()

	r.Observe("list_videos", 100*time.Millisecond)
	r.Observe("list_videos", 300*time.Millisecond)
	r.Observe("upload_video", 2*time.Second)

	stats := r.Stats()
	require.Contains(t, stats, "list_videos")
	require.Contains(t, stats, "upload_video")

	list := stats["list_videos"]
	assert.Equal(t, 2, list.Count)
	assert.InDelta(t, 0.2, list.AvgTime, 0.001)
	assert.InDelta(t, 0.1, list.MinTime, 0.001)
	assert.InDelta(t, 0.3, list.MaxTime, 0.001)
	assert.InDelta(t, 0.4, list.TotalTime, 0.001)
}

func TestMeasureRecordsEvenOnError(t *testing.T) {
	r := NewRegistry()

	err := r.Measure("flaky_op", func() error {
		return errors.New("boom")
	})
	assert.Error(t, err)

	stats := r.Stats()
	require.Contains(t, stats, "flaky_op")
	assert.Equal(t, 1, stats["flaky_op"].Count)
}

func TestSlowOperationsSortedByAvg(t *testing.T) {
	r := NewRegistry()

	r.Observe("fast", 10*time.Millisecond)
	r.Observe("slow", 2*time.Second)
	r.Observe("slower", 5*time.Second)

	slow := r.SlowOperations(1.0)
	require.Len(t, slow, 2)
	assert.Equal(t, "slower", slow[0].Operation)
	assert.Equal(t, "slow", slow[1].Operation)
}

func TestReset(t *testing.T) {
	r := NewRegistry()
	r.Observe("op", time.Second)
	r.Reset()
	assert.Empty(t, r.Stats())
}

func TestConcurrentObserve(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Observe("op", 10*time.Millisecond)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, r.Stats()["op"].Count)
}
