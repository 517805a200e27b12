package kitchen

import (
	"fmt"
)

// ValidationError reports malformed caller input (non-finite or negative
// numbers, empty selections). It is never retried automatically.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s.%s: %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Entity, e.Reason)
}

// PreconditionError reports timer misuse or edits to a finalized batch.
// It indicates a client-side sequencing bug, not a transient fault.
type PreconditionError struct {
	Entity string
	ID     uint
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed for %s %d: %s", e.Entity, e.ID, e.Reason)
}

// ConflictError reports a lost race against a concurrent writer. The caller
// should re-read and retry.
type ConflictError struct {
	Entity string
	ID     uint
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s %d: %s", e.Entity, e.ID, e.Reason)
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IntegrityWarning flags a process whose process type no longer resolves.
// It is not an error: the process is excluded from scoring but validation
// still completes.
type IntegrityWarning struct {
	ProcessID     uint   `json:"process_id"`
	ProcessTypeID uint   `json:"process_type_id"`
	Message       string `json:"message"`
}
