package kitchen

import (
	"fmt"
	"strings"

	"halwahouse/internal/models"

	"github.com/jinzhu/gorm"
)

// TemplateStep is one ordered entry of a halwa type's recipe together with
// its resolved process type.
type TemplateStep struct {
	Mapping     models.HalwaProcessMap `json:"mapping"`
	ProcessType *models.ProcessType    `json:"process_type,omitempty"`
}

// TemplateReport is the ordered template plus advisory findings.
type TemplateReport struct {
	HalwaTypeID uint           `json:"halwa_type_id"`
	Steps       []TemplateStep `json:"steps"`
	// Advisory is set when the mapped length disagrees with the halwa type's
	// declared base process count. Informational only.
	Advisory string `json:"advisory,omitempty"`
}

// ListTemplate returns the template of a halwa type ordered by sequence,
// with process types resolved and an advisory length check against
// base_process_count.
func (s *Service) ListTemplate(halwaTypeID uint) (*TemplateReport, error) {
	var ht models.HalwaType
	if err := s.db.First(&ht, halwaTypeID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, &NotFoundError{Entity: "halwa_type", ID: halwaTypeID}
		}
		return nil, fmt.Errorf("failed to load halwa type %d: %w", halwaTypeID, err)
	}

	mappings, err := s.orderedTemplate(s.db, halwaTypeID)
	if err != nil {
		return nil, err
	}

	types, err := s.processTypesByID()
	if err != nil {
		return nil, err
	}

	report := &TemplateReport{HalwaTypeID: halwaTypeID}
	for _, m := range mappings {
		step := TemplateStep{Mapping: m}
		if pt, ok := types[m.ProcessTypeID]; ok {
			copied := pt
			step.ProcessType = &copied
		}
		report.Steps = append(report.Steps, step)
	}

	if ht.BaseProcessCount != len(mappings) {
		report.Advisory = fmt.Sprintf("halwa type %q declares %d steps but maps %d", ht.Name, ht.BaseProcessCount, len(mappings))
	}
	return report, nil
}

// orderedTemplate loads a halwa type's mapping rows ordered by sequence.
func (s *Service) orderedTemplate(db *gorm.DB, halwaTypeID uint) ([]models.HalwaProcessMap, error) {
	var mappings []models.HalwaProcessMap
	if err := db.Where("halwa_type_id = ?", halwaTypeID).Order("sequence_order asc").Find(&mappings).Error; err != nil {
		return nil, fmt.Errorf("failed to load template for halwa type %d: %w", halwaTypeID, err)
	}
	return mappings, nil
}

// UpsertMapping inserts a process type into a halwa type's template at the
// given 1-based position, or moves it there if it is already mapped. The
// whole template is renumbered densely in one transaction so concurrent
// readers never observe duplicate or missing positions.
func (s *Service) UpsertMapping(actor Actor, halwaTypeID, processTypeID uint, sequenceOrder int) (*models.HalwaProcessMap, error) {
	if !actor.CanEditTemplates() {
		return nil, &PreconditionError{Entity: "halwa_process_map", Reason: fmt.Sprintf("role %q may not edit templates", actor.Role)}
	}
	if sequenceOrder < 1 {
		return nil, &ValidationError{Entity: "halwa_process_map", Field: "sequence_order", Reason: "must be 1-based"}
	}
	if err := s.db.First(&models.HalwaType{}, halwaTypeID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, &NotFoundError{Entity: "halwa_type", ID: halwaTypeID}
		}
		return nil, fmt.Errorf("failed to load halwa type %d: %w", halwaTypeID, err)
	}
	if err := s.db.First(&models.ProcessType{}, processTypeID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, &NotFoundError{Entity: "process_type", ID: processTypeID}
		}
		return nil, fmt.Errorf("failed to load process type %d: %w", processTypeID, err)
	}

	var result *models.HalwaProcessMap
	err := s.db.Transaction(func(tx *gorm.DB) error {
		mappings, err := s.orderedTemplate(tx, halwaTypeID)
		if err != nil {
			return err
		}

		// Pull the row out of the list if the process type is already mapped,
		// then splice it back in at the requested position.
		var moved *models.HalwaProcessMap
		remaining := make([]models.HalwaProcessMap, 0, len(mappings))
		for i := range mappings {
			if mappings[i].ProcessTypeID == processTypeID && moved == nil {
				moved = &mappings[i]
				continue
			}
			remaining = append(remaining, mappings[i])
		}
		if moved == nil {
			moved = &models.HalwaProcessMap{
				HalwaTypeID:   halwaTypeID,
				ProcessTypeID: processTypeID,
			}
			if err := tx.Create(moved).Error; err != nil {
				return fmt.Errorf("failed to create mapping: %w", err)
			}
		}

		pos := sequenceOrder - 1
		if pos > len(remaining) {
			pos = len(remaining)
		}
		reordered := make([]models.HalwaProcessMap, 0, len(remaining)+1)
		reordered = append(reordered, remaining[:pos]...)
		reordered = append(reordered, *moved)
		reordered = append(reordered, remaining[pos:]...)

		for i := range reordered {
			if err := tx.Model(&models.HalwaProcessMap{}).Where("id = ?", reordered[i].ID).Update("sequence_order", i+1).Error; err != nil {
				return fmt.Errorf("failed to renumber mapping %d: %w", reordered[i].ID, err)
			}
			if reordered[i].ID == moved.ID {
				moved.SequenceOrder = i + 1
			}
		}
		result = moved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reorder renumbers a halwa type's template to match the given mapping id
// order. The id set must exactly match the template's current rows; a
// mismatch means a concurrent edit won the race and the caller should
// re-read.
func (s *Service) Reorder(actor Actor, halwaTypeID uint, orderedMappingIDs []uint) error {
	if !actor.CanEditTemplates() {
		return &PreconditionError{Entity: "halwa_process_map", Reason: fmt.Sprintf("role %q may not edit templates", actor.Role)}
	}
	if len(orderedMappingIDs) == 0 {
		return &ValidationError{Entity: "halwa_process_map", Field: "order", Reason: "must not be empty"}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		mappings, err := s.orderedTemplate(tx, halwaTypeID)
		if err != nil {
			return err
		}

		current := make(map[uint]bool, len(mappings))
		for _, m := range mappings {
			current[m.ID] = true
		}
		if len(orderedMappingIDs) != len(mappings) {
			return &ConflictError{Entity: "halwa_type", ID: halwaTypeID, Reason: "template changed since it was read; reorder with a fresh copy"}
		}
		seen := make(map[uint]bool, len(orderedMappingIDs))
		for _, id := range orderedMappingIDs {
			if !current[id] || seen[id] {
				return &ConflictError{Entity: "halwa_type", ID: halwaTypeID, Reason: "template changed since it was read; reorder with a fresh copy"}
			}
			seen[id] = true
		}

		for i, id := range orderedMappingIDs {
			if err := tx.Model(&models.HalwaProcessMap{}).Where("id = ?", id).Update("sequence_order", i+1).Error; err != nil {
				return fmt.Errorf("failed to renumber mapping %d: %w", id, err)
			}
		}
		return nil
	})
}

// RemoveMapping deletes one template step. Batches already instantiated from
// the template are unaffected.
func (s *Service) RemoveMapping(actor Actor, mappingID uint) error {
	if !actor.CanEditTemplates() {
		return &PreconditionError{Entity: "halwa_process_map", ID: mappingID, Reason: fmt.Sprintf("role %q may not edit templates", actor.Role)}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var mapping models.HalwaProcessMap
		if err := tx.First(&mapping, mappingID).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return &NotFoundError{Entity: "halwa_process_map", ID: mappingID}
			}
			return fmt.Errorf("failed to load mapping %d: %w", mappingID, err)
		}
		if err := tx.Delete(&mapping).Error; err != nil {
			return fmt.Errorf("failed to delete mapping %d: %w", mappingID, err)
		}

		// Close the gap so the ordering stays dense.
		remaining, err := s.orderedTemplate(tx, mapping.HalwaTypeID)
		if err != nil {
			return err
		}
		for i := range remaining {
			if remaining[i].SequenceOrder != i+1 {
				if err := tx.Model(&models.HalwaProcessMap{}).Where("id = ?", remaining[i].ID).Update("sequence_order", i+1).Error; err != nil {
					return fmt.Errorf("failed to renumber mapping %d: %w", remaining[i].ID, err)
				}
			}
		}
		return nil
	})
}

// MapStepsByName defines a whole recipe in one pass: each name is resolved to
// an existing process type or created with zero duration and buffer, then
// appended to the template at the next position. Returns the created or
// reused mappings in order.
func (s *Service) MapStepsByName(actor Actor, halwaTypeID uint, names []string) ([]models.HalwaProcessMap, error) {
	if !actor.CanEditTemplates() {
		return nil, &PreconditionError{Entity: "halwa_process_map", Reason: fmt.Sprintf("role %q may not edit templates", actor.Role)}
	}
	if len(names) == 0 {
		return nil, &ValidationError{Entity: "halwa_process_map", Field: "names", Reason: "must not be empty"}
	}
	if err := s.db.First(&models.HalwaType{}, halwaTypeID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, &NotFoundError{Entity: "halwa_type", ID: halwaTypeID}
		}
		return nil, fmt.Errorf("failed to load halwa type %d: %w", halwaTypeID, err)
	}

	var created []models.HalwaProcessMap
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.orderedTemplate(tx, halwaTypeID)
		if err != nil {
			return err
		}
		next := len(existing) + 1

		for _, raw := range names {
			name := strings.TrimSpace(raw)
			if name == "" {
				return &ValidationError{Entity: "process_type", Field: "name", Reason: "must not be empty"}
			}

			var pt models.ProcessType
			if err := tx.Where("name = ?", name).First(&pt).Error; err != nil {
				if !gorm.IsRecordNotFoundError(err) {
					return fmt.Errorf("failed to look up process type %q: %w", name, err)
				}
				pt = models.ProcessType{Name: name}
				if err := tx.Create(&pt).Error; err != nil {
					return fmt.Errorf("failed to create process type %q: %w", name, err)
				}
			}

			mapping := models.HalwaProcessMap{
				HalwaTypeID:   halwaTypeID,
				ProcessTypeID: pt.ID,
				SequenceOrder: next,
			}
			if err := tx.Create(&mapping).Error; err != nil {
				return fmt.Errorf("failed to map %q at position %d: %w", name, next, err)
			}
			created = append(created, mapping)
			next++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
