package models

import (
	"github.com/jinzhu/gorm"
)

// ProcessType is a reusable definition of one timed production step.
// StandardDurationMinutes is the expected wall-clock time for the step and
// VariationBufferMinutes defines the symmetric tolerance band
// [standard-buffer, standard+buffer] used when classifying a recorded run.
type ProcessType struct {
	gorm.Model
	Name                    string  `json:"name"`
	StandardDurationMinutes float64 `json:"standard_duration_minutes"`
	VariationBufferMinutes  float64 `json:"variation_buffer_minutes"`
}

// TableName sets the table name for ProcessType
func (ProcessType) TableName() string {
	return "process_types"
}
