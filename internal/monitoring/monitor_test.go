package monitoring

import (
	"testing"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	metrics := m.GetMetrics()

	// Check if our metric is present
	value, exists := metrics["test_metric"]
	if !exists {
		t.Fatalf("Expected 'test_metric' to be present in metrics, but it was not")
	}

	// Check value
	if value != 42 {
		t.Errorf("Expected 'test_metric' to be 42, but got %v", value)
	}

	// Check uptime presence
	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_RecordBatchOutcome(t *testing.T) {
	m := NewMonitor()

	m.RecordBatchOutcome(7, "moderate", 42.5, 0)

	metrics := m.GetMetrics()

	value, exists := metrics["batch_7_status"]
	if !exists {
		t.Fatalf("Expected 'batch_7_status' to be present in metrics, but it was not")
	}
	if value != "moderate" {
		t.Errorf("Expected 'batch_7_status' to be \"moderate\", but got %v", value)
	}

	if _, exists = metrics["batch_7_validated_at"]; !exists {
		t.Errorf("Expected 'batch_7_validated_at' to be present in metrics, but it was not")
	}

	if count := metrics["batches_validated"]; count != 1 {
		t.Errorf("Expected 'batches_validated' to be 1, but got %v", count)
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	m.Reset()

	metrics := m.GetMetrics()

	// Our test metric should be gone, but uptime should still be there
	_, exists := metrics["test_metric"]
	if exists {
		t.Errorf("Expected 'test_metric' to be removed after Reset(), but it was present")
	}

	// Uptime should still be present (it's added on GetMetrics call)
	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMetricsCollectorRegisters(t *testing.T) {
	mc := NewMetricsCollector()

	mc.RecordBatchCreated()
	mc.RecordProcessDuration("Boil", 33)
	mc.RecordBatchValidation("shift_detected", 2)

	families, err := mc.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}

	want := map[string]bool{
		"kitchen_process_duration_minutes": false,
		"kitchen_batch_validations_total":  false,
		"kitchen_hard_violations_total":    false,
		"kitchen_batches_created_total":    false,
	}
	for _, f := range families {
		if _, ok := want[f.GetName()]; ok {
			want[f.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("Expected metric family %q to be gathered, but it was not", name)
		}
	}
}
