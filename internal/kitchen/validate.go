package kitchen

import (
	"fmt"
	"sort"

	"halwahouse/internal/models"
)

// ProcessCheck is the tolerance classification of one recorded process run.
type ProcessCheck struct {
	ProcessID       uint                      `json:"process_id"`
	ProcessTypeID   uint                      `json:"process_type_id"`
	ProcessTypeName string                    `json:"process_type_name"`
	Sequence        int                       `json:"sequence"`
	DurationMinutes float64                   `json:"duration_minutes"`
	Status          models.ProcessCheckStatus `json:"status"`
	// Deviation is the human-readable phrase ("below by X min" / "above by
	// X min") for out-of-band runs; empty when in band.
	Deviation string `json:"deviation,omitempty"`
}

// BatchReport aggregates per-process checks into a batch classification.
type BatchReport struct {
	BatchID              uint                     `json:"batch_id"`
	Status               models.BatchResultStatus `json:"status"`
	TotalDuration        float64                  `json:"total_duration"`
	Checks               []ProcessCheck           `json:"checks"`
	HardViolations       int                      `json:"hard_violations"`
	Warnings             []IntegrityWarning       `json:"warnings,omitempty"`
	UnfinishedProcesses  int                      `json:"unfinished_processes"`
	Partial              bool                     `json:"partial"`
}

// Classify places a recorded duration in the two-tier tolerance model for a
// process type with the given standard duration and variation buffer, both in
// minutes. The soft band is [standard-buffer, standard+buffer]; a run outside
// it but within [max(min/2, 0), max*2] is a soft violation, and anything
// beyond those hard bounds is a shift. The soft lower bound is deliberately
// not clamped at zero; only the hard lower bound is.
func Classify(duration, standard, buffer float64) (models.ProcessCheckStatus, string) {
	min := standard - buffer
	max := standard + buffer

	if duration >= min && duration <= max {
		return models.ProcessCheckOK, ""
	}

	hardLow := min / 2
	if hardLow < 0 {
		hardLow = 0
	}
	hardHigh := max * 2

	if duration < hardLow || duration > hardHigh {
		if duration < min {
			return models.ProcessCheckShiftDetected, fmt.Sprintf("below by %.2f min", min-duration)
		}
		return models.ProcessCheckShiftDetected, fmt.Sprintf("above by %.2f min", duration-max)
	}

	if duration < min {
		return models.ProcessCheckModerate, fmt.Sprintf("below by %.2f min", min-duration)
	}
	return models.ProcessCheckModerate, fmt.Sprintf("above by %.2f min", duration-max)
}

// rank orders aggregate outcomes worst-last.
func rank(s models.BatchResultStatus) int {
	switch s {
	case models.BatchResultGood:
		return 0
	case models.BatchResultModerate:
		return 1
	case models.BatchResultShiftDetected:
		return 2
	}
	return 0
}

// EvaluateBatch computes the validation report for a batch from its process
// rows and the process type catalog. Processes without a complete timestamp
// pair are excluded from scoring; processes whose type no longer resolves are
// excluded too but surfaced as integrity warnings. The aggregate status is
// the worst classification across all scored processes.
func EvaluateBatch(batch *models.KitchenBatch, processes []models.KitchenProcess, types map[uint]models.ProcessType) *BatchReport {
	report := &BatchReport{
		BatchID: batch.ID,
		Status:  models.BatchResultGood,
	}

	sort.Slice(processes, func(i, j int) bool {
		return processes[i].Sequence < processes[j].Sequence
	})

	for _, p := range processes {
		if p.DurationMinutes == nil {
			report.UnfinishedProcesses++
			continue
		}

		pt, ok := types[p.ProcessTypeID]
		if !ok {
			report.Warnings = append(report.Warnings, IntegrityWarning{
				ProcessID:     p.ID,
				ProcessTypeID: p.ProcessTypeID,
				Message:       fmt.Sprintf("process %d references unknown process type %d; excluded from scoring", p.ID, p.ProcessTypeID),
			})
			continue
		}

		status, deviation := Classify(*p.DurationMinutes, pt.StandardDurationMinutes, pt.VariationBufferMinutes)

		check := ProcessCheck{
			ProcessID:       p.ID,
			ProcessTypeID:   p.ProcessTypeID,
			ProcessTypeName: pt.Name,
			Sequence:        p.Sequence,
			DurationMinutes: *p.DurationMinutes,
			Status:          status,
			Deviation:       deviation,
		}
		report.Checks = append(report.Checks, check)
		report.TotalDuration += *p.DurationMinutes

		var contribution models.BatchResultStatus
		switch status {
		case models.ProcessCheckOK:
			contribution = models.BatchResultGood
		case models.ProcessCheckModerate:
			contribution = models.BatchResultModerate
		case models.ProcessCheckShiftDetected:
			contribution = models.BatchResultShiftDetected
			report.HardViolations++
		}
		if rank(contribution) > rank(report.Status) {
			report.Status = contribution
		}
	}

	report.Partial = report.UnfinishedProcesses > 0
	return report
}
