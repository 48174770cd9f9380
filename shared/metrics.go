package shared

import (
	"sync"
	"time"
)

// RetrievalMetrics tracks which tier answered each read and how the supplier fan-out
// behaved. Counters are process-local and reset on restart.
type RetrievalMetrics struct {
	mutex sync.RWMutex

	CacheHits         int64
	StoreHits         int64
	Aggregations      int64
	EmptyAggregations int64

	SupplierFailures map[string]int64

	LastAggregation   time.Time
	LastAggregated    int64
	startTime         time.Time
}

// NewRetrievalMetrics creates a zeroed metrics collector.
func NewRetrievalMetrics() *RetrievalMetrics {
	return &RetrievalMetrics{
		SupplierFailures: make(map[string]int64),
		startTime:        time.Now(),
	}
}

// RecordCacheHit records a read served from the fast cache tier.
func (m *RetrievalMetrics) RecordCacheHit() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.CacheHits++
}

// RecordStoreHit records a read served from the persistent store tier.
func (m *RetrievalMetrics) RecordStoreHit() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.StoreHits++
}

// RecordAggregation records a live aggregation producing offerCount offers.
func (m *RetrievalMetrics) RecordAggregation(offerCount int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.Aggregations++
	if offerCount == 0 {
		m.EmptyAggregations++
	}
	m.LastAggregation = time.Now()
	m.LastAggregated = int64(offerCount)
}

// RecordSupplierFailure records an isolated fetch failure for one supplier.
func (m *RetrievalMetrics) RecordSupplierFailure(supplierName string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.SupplierFailures[supplierName]++
}

// Snapshot returns a copy of the current counters for the metrics endpoint.
func (m *RetrievalMetrics) Snapshot() map[string]interface{} {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	failures := make(map[string]int64, len(m.SupplierFailures))
	for supplier, count := range m.SupplierFailures {
		failures[supplier] = count
	}

	return map[string]interface{}{
		"cache_hits":         m.CacheHits,
		"store_hits":         m.StoreHits,
		"aggregations":       m.Aggregations,
		"empty_aggregations": m.EmptyAggregations,
		"supplier_failures":  failures,
		"last_aggregation":   m.LastAggregation,
		"last_aggregated":    m.LastAggregated,
		"uptime_seconds":     int64(time.Since(m.startTime).Seconds()),
	}
}
