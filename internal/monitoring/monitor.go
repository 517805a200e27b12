package monitoring

import (
	"fmt"
	"sync"
	"time"
)

// Monitor collects and provides lightweight operational counters for the
// kitchen status endpoint. Prometheus collectors (metrics.go) cover the
// scrape path; this map serves the human-facing JSON status view.
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	// Create a copy to avoid concurrent map access
	metrics := make(map[string]interface{}, len(m.metrics))
	for k, v := range m.metrics {
		metrics[k] = v
	}

	// Add system metrics
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}

// RecordBatchOutcome records the result of a finalized batch so the status
// endpoint can show the most recent runs without a database round trip.
func (m *Monitor) RecordBatchOutcome(batchID uint, status string, totalDuration float64, hardViolations int) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	prefix := fmt.Sprintf("batch_%d_", batchID)
	m.metrics[prefix+"status"] = status
	m.metrics[prefix+"total_duration"] = totalDuration
	m.metrics[prefix+"hard_violations"] = hardViolations
	m.metrics[prefix+"validated_at"] = time.Now().Format(time.RFC3339)

	count, _ := m.metrics["batches_validated"].(int)
	m.metrics["batches_validated"] = count + 1
}
