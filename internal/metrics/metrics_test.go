package metrics_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polibrief/newscrawl/internal/metrics"
)

func TestMetricsRecording(t *testing.T) {
	t.Parallel()

	m := metrics.NewMetrics()

	m.RecordPage(true)
	m.RecordPage(false)
	m.RecordItems(3)
	m.RecordDuplicates(2)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.PagesProcessed)
	assert.Equal(t, int64(1), snap.PagesFailed)
	assert.Equal(t, int64(3), snap.ItemsEmitted)
	assert.Equal(t, int64(2), snap.DuplicatesRejected)
	assert.False(t, snap.StartTime.IsZero())
	assert.False(t, snap.LastProcessedTime.IsZero())
}

func TestMetricsConcurrentRecording(t *testing.T) {
	t.Parallel()

	const workers = 32

	m := metrics.NewMetrics()

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordPage(true)
			m.RecordItems(1)
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.Equal(t, int64(workers), snap.PagesProcessed)
	assert.Equal(t, int64(workers), snap.ItemsEmitted)
	assert.Equal(t, int64(0), snap.PagesFailed)
}
