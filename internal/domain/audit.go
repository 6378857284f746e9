package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditAction is the kind of mutation an audit entry records.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

// IsValid reports whether a is one of the known actions.
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}

// AuditLogEntry is one immutable record in the audit trail. TaskID is not a
// reference: the entry outlives the task it describes.
type AuditLogEntry struct {
	ID             uuid.UUID      `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	Action         AuditAction    `json:"action"`
	TaskID         uuid.UUID      `json:"taskId"`
	UpdatedContent map[string]any `json:"updatedContent"`
	PerformedBy    string         `json:"performedBy"`
}

// NewAuditLogEntry builds an entry stamped with the current time. A nil
// content map is recorded as an empty object.
func NewAuditLogEntry(action AuditAction, taskID uuid.UUID, content map[string]any, performedBy string) (*AuditLogEntry, error) {
	entry := &AuditLogEntry{
		ID:             uuid.New(),
		Timestamp:      Now(),
		Action:         action,
		TaskID:         taskID,
		UpdatedContent: content,
		PerformedBy:    performedBy,
	}
	if entry.UpdatedContent == nil {
		entry.UpdatedContent = map[string]any{}
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Validate checks the entry's required fields.
func (e *AuditLogEntry) Validate() error {
	if e.ID == uuid.Nil || e.TaskID == uuid.Nil {
		return ErrEmptyID
	}
	if !e.Action.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAuditAction, e.Action)
	}
	if e.PerformedBy == "" {
		return fmt.Errorf("%w: performedBy is required", ErrValidation)
	}
	return nil
}
