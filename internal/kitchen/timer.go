package kitchen

import (
	"fmt"

	"halwahouse/internal/models"

	"github.com/jinzhu/gorm"
)

// loadProcess fetches a process and its owning batch, rejecting timing edits
// on finalized batches.
func (s *Service) loadProcess(processID uint) (*models.KitchenProcess, error) {
	var process models.KitchenProcess
	if err := s.db.First(&process, processID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, &NotFoundError{Entity: "kitchen_process", ID: processID}
		}
		return nil, fmt.Errorf("failed to load process %d: %w", processID, err)
	}

	var batch models.KitchenBatch
	if err := s.db.First(&batch, process.BatchID).Error; err != nil {
		return nil, fmt.Errorf("failed to load batch %d of process %d: %w", process.BatchID, processID, err)
	}
	if batch.IsFinalized() {
		return nil, &PreconditionError{Entity: "kitchen_process", ID: processID, Reason: "batch is finalized; timing edits are frozen"}
	}
	return &process, nil
}

// StartProcess records the start timestamp of a process. Starting an already
// running or finished process is an idempotent no-op that returns the row
// with its original start time: two operators pressing start concurrently
// must not overwrite the true start.
func (s *Service) StartProcess(processID uint) (*models.KitchenProcess, error) {
	process, err := s.loadProcess(processID)
	if err != nil {
		return nil, err
	}

	if process.StartTime == nil {
		now := s.clock.Now()
		// Conditional write: only the first starter lands.
		if err := s.db.Model(&models.KitchenProcess{}).
			Where("id = ? AND start_time IS NULL", processID).
			Update("start_time", now).Error; err != nil {
			return nil, fmt.Errorf("failed to start process %d: %w", processID, err)
		}
	}

	if err := s.db.First(process, processID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload process %d: %w", processID, err)
	}
	return process, nil
}

// StopProcess records the end timestamp and derives the duration in
// fractional minutes. Stopping before starting, or stopping twice, is a
// precondition failure.
func (s *Service) StopProcess(processID uint) (*models.KitchenProcess, error) {
	process, err := s.loadProcess(processID)
	if err != nil {
		return nil, err
	}

	if process.StartTime == nil {
		return nil, &PreconditionError{Entity: "kitchen_process", ID: processID, Reason: "cannot stop a process that was never started"}
	}
	if process.EndTime != nil {
		return nil, &PreconditionError{Entity: "kitchen_process", ID: processID, Reason: "process is already stopped"}
	}

	now := s.clock.Now()
	duration := now.Sub(*process.StartTime).Minutes()

	res := s.db.Model(&models.KitchenProcess{}).
		Where("id = ? AND start_time IS NOT NULL AND end_time IS NULL", processID).
		Updates(map[string]interface{}{
			"end_time":         now,
			"duration_minutes": duration,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to stop process %d: %w", processID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &ConflictError{Entity: "kitchen_process", ID: processID, Reason: "process was stopped concurrently"}
	}

	if err := s.db.First(process, processID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload process %d: %w", processID, err)
	}
	return process, nil
}
