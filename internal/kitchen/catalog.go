package kitchen

import (
	"fmt"
	"strings"

	"halwahouse/internal/models"

	"github.com/jinzhu/gorm"
)

// CreateProcessType adds a new timed step definition to the catalog.
func (s *Service) CreateProcessType(name string, standardMinutes, bufferMinutes float64) (*models.ProcessType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Entity: "process_type", Field: "name", Reason: "must not be empty"}
	}
	if !finiteNonNegative(standardMinutes) {
		return nil, &ValidationError{Entity: "process_type", Field: "standard_duration_minutes", Reason: "must be finite and non-negative"}
	}
	if !finiteNonNegative(bufferMinutes) {
		return nil, &ValidationError{Entity: "process_type", Field: "variation_buffer_minutes", Reason: "must be finite and non-negative"}
	}

	pt := &models.ProcessType{
		Name:                    name,
		StandardDurationMinutes: standardMinutes,
		VariationBufferMinutes:  bufferMinutes,
	}
	if err := s.db.Create(pt).Error; err != nil {
		return nil, fmt.Errorf("failed to create process type: %w", err)
	}
	return pt, nil
}

// ProcessTypeUpdate carries the optional fields of a partial process type
// edit. Nil fields are left untouched.
type ProcessTypeUpdate struct {
	Name                    *string  `json:"name,omitempty"`
	StandardDurationMinutes *float64 `json:"standard_duration_minutes,omitempty"`
	VariationBufferMinutes  *float64 `json:"variation_buffer_minutes,omitempty"`
}

// UpdateProcessType applies a partial edit to a process type. Edits do not
// retroactively change batches already instantiated, only future evaluation
// of durations against the band.
func (s *Service) UpdateProcessType(id uint, upd ProcessTypeUpdate) (*models.ProcessType, error) {
	var pt models.ProcessType
	if err := s.db.First(&pt, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, &NotFoundError{Entity: "process_type", ID: id}
		}
		return nil, fmt.Errorf("failed to load process type %d: %w", id, err)
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, &ValidationError{Entity: "process_type", Field: "name", Reason: "must not be empty"}
		}
		pt.Name = name
	}
	if upd.StandardDurationMinutes != nil {
		if !finiteNonNegative(*upd.StandardDurationMinutes) {
			return nil, &ValidationError{Entity: "process_type", Field: "standard_duration_minutes", Reason: "must be finite and non-negative"}
		}
		pt.StandardDurationMinutes = *upd.StandardDurationMinutes
	}
	if upd.VariationBufferMinutes != nil {
		if !finiteNonNegative(*upd.VariationBufferMinutes) {
			return nil, &ValidationError{Entity: "process_type", Field: "variation_buffer_minutes", Reason: "must be finite and non-negative"}
		}
		pt.VariationBufferMinutes = *upd.VariationBufferMinutes
	}

	if err := s.db.Save(&pt).Error; err != nil {
		return nil, fmt.Errorf("failed to update process type %d: %w", id, err)
	}
	return &pt, nil
}

// GetProcessType loads one process type by id.
func (s *Service) GetProcessType(id uint) (*models.ProcessType, error) {
	var pt models.ProcessType
	if err := s.db.First(&pt, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, &NotFoundError{Entity: "process_type", ID: id}
		}
		return nil, fmt.Errorf("failed to load process type %d: %w", id, err)
	}
	return &pt, nil
}

// ListProcessTypes returns the full process type catalog. There is no delete
// operation: historical batches keep referencing their types.
func (s *Service) ListProcessTypes() ([]models.ProcessType, error) {
	var types []models.ProcessType
	if err := s.db.Order("id asc").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list process types: %w", err)
	}
	return types, nil
}

// processTypesByID loads the catalog keyed by id for batch evaluation.
func (s *Service) processTypesByID() (map[uint]models.ProcessType, error) {
	types, err := s.ListProcessTypes()
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.ProcessType, len(types))
	for _, t := range types {
		byID[t.ID] = t
	}
	return byID, nil
}

// CreateHalwaType adds a new product recipe definition. Requires template
// edit capability.
func (s *Service) CreateHalwaType(actor Actor, name string, baseProcessCount int, active bool) (*models.HalwaType, error) {
	if !actor.CanEditTemplates() {
		return nil, &PreconditionError{Entity: "halwa_type", Reason: fmt.Sprintf("role %q may not edit the catalog", actor.Role)}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Entity: "halwa_type", Field: "name", Reason: "must not be empty"}
	}
	if baseProcessCount < 0 {
		return nil, &ValidationError{Entity: "halwa_type", Field: "base_process_count", Reason: "must be non-negative"}
	}

	ht := &models.HalwaType{
		Name:             name,
		BaseProcessCount: baseProcessCount,
		Active:           active,
	}
	if err := s.db.Create(ht).Error; err != nil {
		return nil, fmt.Errorf("failed to create halwa type: %w", err)
	}
	return ht, nil
}

// HalwaTypeUpdate carries the optional fields of a partial halwa type edit.
type HalwaTypeUpdate struct {
	Name             *string `json:"name,omitempty"`
	BaseProcessCount *int    `json:"base_process_count,omitempty"`
	Active           *bool   `json:"active,omitempty"`
}

// UpdateHalwaType applies a partial edit, including deactivation. Inactive
// types stay valid for historical batches and are only hidden from new-batch
// creation.
func (s *Service) UpdateHalwaType(actor Actor, id uint, upd HalwaTypeUpdate) (*models.HalwaType, error) {
	if !actor.CanEditTemplates() {
		return nil, &PreconditionError{Entity: "halwa_type", ID: id, Reason: fmt.Sprintf("role %q may not edit the catalog", actor.Role)}
	}

	var ht models.HalwaType
	if err := s.db.First(&ht, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, &NotFoundError{Entity: "halwa_type", ID: id}
		}
		return nil, fmt.Errorf("failed to load halwa type %d: %w", id, err)
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, &ValidationError{Entity: "halwa_type", Field: "name", Reason: "must not be empty"}
		}
		ht.Name = name
	}
	if upd.BaseProcessCount != nil {
		if *upd.BaseProcessCount < 0 {
			return nil, &ValidationError{Entity: "halwa_type", Field: "base_process_count", Reason: "must be non-negative"}
		}
		ht.BaseProcessCount = *upd.BaseProcessCount
	}
	if upd.Active != nil {
		ht.Active = *upd.Active
	}

	// Save skips zero-valued fields on updates of non-struct maps; use Updates
	// with explicit values so Active=false persists.
	if err := s.db.Model(&ht).Updates(map[string]interface{}{
		"name":               ht.Name,
		"base_process_count": ht.BaseProcessCount,
		"active":             ht.Active,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update halwa type %d: %w", id, err)
	}
	return &ht, nil
}

// ListHalwaTypes returns halwa types, optionally restricted to active ones
// (the filter used when offering choices for a new batch).
func (s *Service) ListHalwaTypes(activeOnly bool) ([]models.HalwaType, error) {
	var types []models.HalwaType
	q := s.db.Order("id asc")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list halwa types: %w", err)
	}
	return types, nil
}
