package models

import (
	"github.com/jinzhu/gorm"
)

// HalwaType is a named product recipe whose production runs as an ordered
// sequence of process types (see HalwaProcessMap).
type HalwaType struct {
	gorm.Model
	Name string `json:"name"`
	// BaseProcessCount is the expected number of steps. It is advisory only;
	// the mapped template is the source of truth for what actually runs.
	BaseProcessCount int  `json:"base_process_count"`
	Active           bool `json:"active"`
}

// TableName sets the table name for HalwaType
func (HalwaType) TableName() string {
	return "halwa_types"
}

// HalwaProcessMap places one process type at one position inside a halwa
// type's recipe. SequenceOrder values are 1-based and contiguous within a
// halwa type and are copied verbatim when a batch is instantiated.
type HalwaProcessMap struct {
	gorm.Model
	HalwaTypeID   uint `json:"halwa_type_id"`
	ProcessTypeID uint `json:"process_type_id"`
	SequenceOrder int  `json:"sequence_order"`
}

// TableName sets the table name for HalwaProcessMap
func (HalwaProcessMap) TableName() string {
	return "halwa_process_maps"
}
