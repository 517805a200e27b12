package kitchen

import (
	"testing"

	"halwahouse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyToleranceBoundaries(t *testing.T) {
	// standard=10, buffer=2 -> soft band [8,12], hard band [4,24]
	tests := []struct {
		name       string
		duration   float64
		wantStatus models.ProcessCheckStatus
	}{
		{"at lower soft bound", 8, models.ProcessCheckOK},
		{"at upper soft bound", 12, models.ProcessCheckOK},
		{"inside band", 10, models.ProcessCheckOK},
		{"just below band", 7.99, models.ProcessCheckModerate},
		{"just above band", 12.01, models.ProcessCheckModerate},
		{"at hard lower bound", 4, models.ProcessCheckModerate},
		{"at hard upper bound", 24, models.ProcessCheckModerate},
		{"below hard lower bound", 3.99, models.ProcessCheckShiftDetected},
		{"above hard upper bound", 24.01, models.ProcessCheckShiftDetected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := Classify(tt.duration, 10, 2)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestClassifyDeviationText(t *testing.T) {
	_, deviation := Classify(7, 10, 2)
	assert.Equal(t, "below by 1.00 min", deviation)

	_, deviation = Classify(13.5, 10, 2)
	assert.Equal(t, "above by 1.50 min", deviation)

	_, deviation = Classify(10, 10, 2)
	assert.Empty(t, deviation)
}

func TestClassifyBufferLargerThanStandard(t *testing.T) {
	// standard=5, buffer=8: the soft lower bound goes negative and is kept
	// as-is, while the hard lower bound clamps at zero. A zero duration is
	// therefore still in band.
	status, _ := Classify(0, 5, 8)
	assert.Equal(t, models.ProcessCheckOK, status)

	// Upper side behaves normally: max=13, hard max=26.
	status, _ = Classify(20, 5, 8)
	assert.Equal(t, models.ProcessCheckModerate, status)
	status, _ = Classify(27, 5, 8)
	assert.Equal(t, models.ProcessCheckShiftDetected, status)
}

func TestClassifyZeroBuffer(t *testing.T) {
	status, _ := Classify(10, 10, 0)
	assert.Equal(t, models.ProcessCheckOK, status)

	// Band collapses to a point; anything else is at least moderate.
	status, _ = Classify(10.01, 10, 0)
	assert.Equal(t, models.ProcessCheckModerate, status)

	// Hard bounds become [5, 20].
	status, _ = Classify(4.9, 10, 0)
	assert.Equal(t, models.ProcessCheckShiftDetected, status)
}

func minutes(v float64) *float64 { return &v }

func TestEvaluateBatchWorstOf(t *testing.T) {
	types := map[uint]models.ProcessType{
		1: {Name: "Boil", StandardDurationMinutes: 10, VariationBufferMinutes: 2},
	}
	batch := &models.KitchenBatch{}

	processes := []models.KitchenProcess{
		{ProcessTypeID: 1, Sequence: 1, DurationMinutes: minutes(10)},
		{ProcessTypeID: 1, Sequence: 2, DurationMinutes: minutes(13)},
		{ProcessTypeID: 1, Sequence: 3, DurationMinutes: minutes(9)},
	}
	report := EvaluateBatch(batch, processes, types)
	assert.Equal(t, models.BatchResultModerate, report.Status)
	assert.Equal(t, 0, report.HardViolations)
	assert.InDelta(t, 32, report.TotalDuration, 1e-9)

	// One hard violation drags the whole batch down regardless of the rest.
	processes = append(processes, models.KitchenProcess{
		ProcessTypeID: 1, Sequence: 4, DurationMinutes: minutes(30),
	})
	report = EvaluateBatch(batch, processes, types)
	assert.Equal(t, models.BatchResultShiftDetected, report.Status)
	assert.Equal(t, 1, report.HardViolations)
}

func TestEvaluateBatchAllOK(t *testing.T) {
	types := map[uint]models.ProcessType{
		1: {Name: "Boil", StandardDurationMinutes: 30, VariationBufferMinutes: 5},
	}
	report := EvaluateBatch(&models.KitchenBatch{}, []models.KitchenProcess{
		{ProcessTypeID: 1, Sequence: 1, DurationMinutes: minutes(33)},
	}, types)

	require.Len(t, report.Checks, 1)
	assert.Equal(t, models.ProcessCheckOK, report.Checks[0].Status)
	assert.Equal(t, models.BatchResultGood, report.Status)
	assert.False(t, report.Partial)
}

func TestEvaluateBatchUnresolvableTypeIsWarnedNotScored(t *testing.T) {
	types := map[uint]models.ProcessType{
		1: {Name: "Boil", StandardDurationMinutes: 10, VariationBufferMinutes: 2},
	}
	report := EvaluateBatch(&models.KitchenBatch{}, []models.KitchenProcess{
		{ProcessTypeID: 1, Sequence: 1, DurationMinutes: minutes(10)},
		{ProcessTypeID: 99, Sequence: 2, DurationMinutes: minutes(500)},
	}, types)

	assert.Equal(t, models.BatchResultGood, report.Status)
	assert.Len(t, report.Checks, 1)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, uint(99), report.Warnings[0].ProcessTypeID)
}

func TestEvaluateBatchUnfinishedProcessesArePartial(t *testing.T) {
	types := map[uint]models.ProcessType{
		1: {Name: "Boil", StandardDurationMinutes: 10, VariationBufferMinutes: 2},
	}
	report := EvaluateBatch(&models.KitchenBatch{}, []models.KitchenProcess{
		{ProcessTypeID: 1, Sequence: 1, DurationMinutes: minutes(10)},
		{ProcessTypeID: 1, Sequence: 2},
	}, types)

	assert.True(t, report.Partial)
	assert.Equal(t, 1, report.UnfinishedProcesses)
	assert.Len(t, report.Checks, 1)
}
