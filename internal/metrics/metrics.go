// Package metrics provides metrics collection and reporting functionality.
package metrics

import (
	"sync"
	"time"
)

// Metrics tracks one crawl engine's counters.
type Metrics struct {
	mu sync.Mutex

	// pagesProcessed is the number of URLs fetched, successful or not.
	pagesProcessed int64
	// pagesFailed is the number of URLs whose fetch or parse errored.
	pagesFailed int64
	// itemsEmitted is the number of items accepted after deduplication.
	itemsEmitted int64
	// duplicatesRejected is the number of items the deduplicator refused.
	duplicatesRejected int64
	// startTime is when collection began.
	startTime time.Time
	// lastProcessedTime is the time of the last completed URL.
	lastProcessedTime time.Time
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordPage counts one completed URL.
func (m *Metrics) RecordPage(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pagesProcessed++
	if !success {
		m.pagesFailed++
	}
	m.lastProcessedTime = time.Now()
}

// RecordItems counts accepted items.
func (m *Metrics) RecordItems(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itemsEmitted += int64(n)
}

// RecordDuplicates counts rejected duplicates.
func (m *Metrics) RecordDuplicates(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duplicatesRejected += int64(n)
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	PagesProcessed     int64
	PagesFailed        int64
	ItemsEmitted       int64
	DuplicatesRejected int64
	StartTime          time.Time
	LastProcessedTime  time.Time
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		PagesProcessed:     m.pagesProcessed,
		PagesFailed:        m.pagesFailed,
		ItemsEmitted:       m.itemsEmitted,
		DuplicatesRejected: m.duplicatesRejected,
		StartTime:          m.startTime,
		LastProcessedTime:  m.lastProcessedTime,
	}
}
