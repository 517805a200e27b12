package kitchen

import (
	"fmt"

	"halwahouse/internal/models"

	"github.com/jinzhu/gorm"
)

// CreateBatch instantiates a production run from one or more halwa types.
// The selected templates are read and the process rows written inside one
// transaction, so the batch sees a consistent snapshot of each template even
// if an edit lands mid-creation. Later template edits never touch an
// in-flight batch.
func (s *Service) CreateBatch(actor Actor, starchWeight float64, halwaTypeIDs []uint) (*models.KitchenBatch, error) {
	if !finiteNonNegative(starchWeight) {
		return nil, &ValidationError{Entity: "kitchen_batch", Field: "starch_weight", Reason: "must be finite and non-negative"}
	}
	if len(halwaTypeIDs) == 0 {
		return nil, &ValidationError{Entity: "kitchen_batch", Field: "halwa_type_ids", Reason: "must select at least one halwa type"}
	}

	var batch *models.KitchenBatch
	err := s.db.Transaction(func(tx *gorm.DB) error {
		names := make(models.StringSlice, 0, len(halwaTypeIDs))
		ids := make(models.UintSlice, 0, len(halwaTypeIDs))
		for _, id := range halwaTypeIDs {
			var ht models.HalwaType
			if err := tx.First(&ht, id).Error; err != nil {
				if gorm.IsRecordNotFoundError(err) {
					return &NotFoundError{Entity: "halwa_type", ID: id}
				}
				return fmt.Errorf("failed to load halwa type %d: %w", id, err)
			}
			if !ht.Active {
				return &ValidationError{Entity: "halwa_type", Field: "active", Reason: fmt.Sprintf("halwa type %q is inactive and cannot start new batches", ht.Name)}
			}
			names = append(names, ht.Name)
			ids = append(ids, ht.ID)
		}

		batch = &models.KitchenBatch{
			HalwaTypeIDs:   ids,
			HalwaTypeNames: names,
			StarchWeight:   starchWeight,
			ChefID:         actor.ChefID,
			Status:         string(models.BatchStatusPending),
		}
		if err := tx.Create(batch).Error; err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}

		// Concatenate the selected templates in selection order. The
		// batch-local sequence is the position in this combined list; an
		// empty template simply contributes nothing.
		sequence := 1
		for _, id := range halwaTypeIDs {
			mappings, err := s.orderedTemplate(tx, id)
			if err != nil {
				return err
			}
			for _, m := range mappings {
				process := models.KitchenProcess{
					BatchID:       batch.ID,
					ProcessTypeID: m.ProcessTypeID,
					Sequence:      sequence,
				}
				if err := tx.Create(&process).Error; err != nil {
					return fmt.Errorf("failed to create process %d of batch %d: %w", sequence, batch.ID, err)
				}
				batch.Processes = append(batch.Processes, process)
				sequence++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// GetBatch loads a batch with its processes ordered by sequence.
func (s *Service) GetBatch(id uint) (*models.KitchenBatch, error) {
	var batch models.KitchenBatch
	if err := s.db.First(&batch, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, &NotFoundError{Entity: "kitchen_batch", ID: id}
		}
		return nil, fmt.Errorf("failed to load batch %d: %w", id, err)
	}
	processes, err := s.batchProcesses(id)
	if err != nil {
		return nil, err
	}
	batch.Processes = processes
	return &batch, nil
}

// ListBatches returns all batches, newest first, without their process lists.
func (s *Service) ListBatches() ([]models.KitchenBatch, error) {
	var batches []models.KitchenBatch
	if err := s.db.Order("id desc").Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}

func (s *Service) batchProcesses(batchID uint) ([]models.KitchenProcess, error) {
	var processes []models.KitchenProcess
	if err := s.db.Where("batch_id = ?", batchID).Order("sequence asc").Find(&processes).Error; err != nil {
		return nil, fmt.Errorf("failed to load processes of batch %d: %w", batchID, err)
	}
	return processes, nil
}

// PreviewBatch computes the validation report without persisting anything.
// Works on pending and finalized batches alike.
func (s *Service) PreviewBatch(batchID uint) (*BatchReport, error) {
	batch, err := s.GetBatch(batchID)
	if err != nil {
		return nil, err
	}
	types, err := s.processTypesByID()
	if err != nil {
		return nil, err
	}
	return EvaluateBatch(batch, batch.Processes, types), nil
}

// ValidateBatch finalizes a batch: it computes the aggregate classification,
// persists status and total duration, and closes the batch to further timing
// edits. The pending-to-validated transition is a compare-and-swap; losing
// the race, or validating twice, returns a ConflictError. Unfinished
// processes are excluded from scoring and flagged via Partial.
func (s *Service) ValidateBatch(batchID uint) (*BatchReport, error) {
	batch, err := s.GetBatch(batchID)
	if err != nil {
		return nil, err
	}
	if batch.IsFinalized() {
		return nil, &ConflictError{Entity: "kitchen_batch", ID: batchID, Reason: "batch is already validated"}
	}

	types, err := s.processTypesByID()
	if err != nil {
		return nil, err
	}
	report := EvaluateBatch(batch, batch.Processes, types)

	res := s.db.Model(&models.KitchenBatch{}).
		Where("id = ? AND status = ?", batchID, string(models.BatchStatusPending)).
		Updates(map[string]interface{}{
			"status":         string(report.Status),
			"total_duration": report.TotalDuration,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to finalize batch %d: %w", batchID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &ConflictError{Entity: "kitchen_batch", ID: batchID, Reason: "batch was finalized concurrently"}
	}
	return report, nil
}
