package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/jinzhu/gorm"
)

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// UintSlice represents a slice of ids that can be stored in the database
type UintSlice []uint

// Value converts the slice to a JSON string for storage
func (s UintSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan converts the database value back to a slice
func (s *UintSlice) Scan(value interface{}) error {
	if value == nil {
		*s = UintSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for UintSlice")
	}
}

// KitchenBatch is one concrete production run instantiated from one or more
// halwa type templates. The selected type ids and names are stored as ordered
// collections; any combined display label is derived at the API boundary.
type KitchenBatch struct {
	gorm.Model
	HalwaTypeIDs   UintSlice   `gorm:"type:text" json:"halwa_type_ids"`
	HalwaTypeNames StringSlice `gorm:"type:text" json:"halwa_type_names"`
	StarchWeight   float64     `json:"starch_weight"`
	ChefID         string      `json:"chef_id"`
	// TotalDuration and Status are written once at finalization and frozen
	// afterwards.
	TotalDuration float64          `json:"total_duration"`
	Status        string           `json:"status"`
	Processes     []KitchenProcess `gorm:"foreignkey:BatchID" json:"processes,omitempty"`
}

// TableName sets the table name for KitchenBatch
func (KitchenBatch) TableName() string {
	return "kitchen_batches"
}

// KitchenProcess is one timed step within a batch, snapshotted from a
// template entry at batch creation. Sequence is the position in the batch's
// concatenated step list, independent of the originating template numbering.
type KitchenProcess struct {
	gorm.Model
	BatchID         uint       `json:"batch_id"`
	ProcessTypeID   uint       `json:"process_type_id"`
	Sequence        int        `json:"sequence"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *float64   `json:"duration_minutes,omitempty"`
}

// TableName sets the table name for KitchenProcess
func (KitchenProcess) TableName() string {
	return "kitchen_processes"
}

// BatchStatus represents the lifecycle state of a kitchen batch. A batch is
// created pending; finalization replaces the status with the aggregate
// validation outcome (see BatchResultStatus), which doubles as the
// "validated" marker.
type BatchStatus string

const (
	BatchStatusPending BatchStatus = "pending"
)

// ProcessCheckStatus represents the tolerance classification of one process
type ProcessCheckStatus string

const (
	ProcessCheckOK            ProcessCheckStatus = "ok"
	ProcessCheckModerate      ProcessCheckStatus = "moderate"
	ProcessCheckShiftDetected ProcessCheckStatus = "shift_detected"
)

// BatchResultStatus represents the aggregate validation outcome of a batch
type BatchResultStatus string

const (
	BatchResultGood          BatchResultStatus = "good"
	BatchResultModerate      BatchResultStatus = "moderate"
	BatchResultShiftDetected BatchResultStatus = "shift_detected"
)

// IsFinalized reports whether the batch has left the pending state
func (b *KitchenBatch) IsFinalized() bool {
	return b.Status != string(BatchStatusPending)
}

// IsRunning reports whether the process has started but not yet stopped
func (p *KitchenProcess) IsRunning() bool {
	return p.StartTime != nil && p.EndTime == nil
}

// IsFinished reports whether the process has a complete timestamp pair
func (p *KitchenProcess) IsFinished() bool {
	return p.StartTime != nil && p.EndTime != nil
}
