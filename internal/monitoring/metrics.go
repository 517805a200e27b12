package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector handles metrics collection and reporting for the kitchen
// production engine.
type MetricsCollector struct {
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector
}

// NewMetricsCollector creates a new metrics collector with its own registry.
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kitchen_process_duration_minutes",
			Help:    "Recorded duration of timed production steps",
			Buckets: prometheus.LinearBuckets(0, 5, 24), // 5-minute buckets up to 2 hours
		},
		[]string{"process_type"},
	)

	batchValidations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_batch_validations_total",
			Help: "Finalized batches by aggregate status",
		},
		[]string{"status"},
	)

	hardViolations := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kitchen_hard_violations_total",
			Help: "Process runs beyond twice the tolerance band",
		},
	)

	batchesCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kitchen_batches_created_total",
			Help: "Batches instantiated from templates",
		},
	)

	metrics := map[string]prometheus.Collector{
		"process_duration":  processDuration,
		"batch_validations": batchValidations,
		"hard_violations":   hardViolations,
		"batches_created":   batchesCreated,
	}

	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	return &MetricsCollector{
		registry: registry,
		metrics:  metrics,
	}
}

// Registry exposes the collector's registry for the metrics HTTP server.
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// RecordProcessDuration records a completed process run.
func (mc *MetricsCollector) RecordProcessDuration(processType string, minutes float64) {
	if histogram, ok := mc.metrics["process_duration"].(*prometheus.HistogramVec); ok {
		histogram.WithLabelValues(processType).Observe(minutes)
	}
}

// RecordBatchCreated counts a new batch instantiation.
func (mc *MetricsCollector) RecordBatchCreated() {
	if counter, ok := mc.metrics["batches_created"].(prometheus.Counter); ok {
		counter.Inc()
	}
}

// RecordBatchValidation records a finalized batch outcome together with its
// hard-violation count.
func (mc *MetricsCollector) RecordBatchValidation(status string, hardViolations int) {
	if counter, ok := mc.metrics["batch_validations"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(status).Inc()
	}
	if counter, ok := mc.metrics["hard_violations"].(prometheus.Counter); ok {
		counter.Add(float64(hardViolations))
	}
}
