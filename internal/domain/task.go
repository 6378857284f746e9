package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field limits for tasks.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Now returns the current UTC time truncated to the microsecond precision
// of a PostgreSQL timestamptz, so a value echoed after a write equals the
// value read back later.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Task is a short text item on the shared task list.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	// CreatedBy is set only when the creator presented a session token.
	CreatedBy     *uuid.UUID `json:"createdBy"`
	CreatedByName string     `json:"createdByName,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// TaskInput carries the fields supplied when creating a task.
type TaskInput struct {
	Title       string `json:"title"       validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=500"`
}

// Normalize returns a copy with surrounding whitespace removed.
func (in TaskInput) Normalize() TaskInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// Validate reports every field that violates the task rules.
func (in TaskInput) Validate() error {
	return validateStruct(in)
}

// NewTask creates a task owned by the given identity. The input is trimmed
// and validated first.
func NewTask(input TaskInput, by *Identity) (*Task, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := Now()
	task := &Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if by != nil {
		task.CreatedByName = by.Username
		if by.UserID != nil {
			id := *by.UserID
			task.CreatedBy = &id
		}
	}
	return task, nil
}

// Validate checks that a task is fit to persist.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyID
	}
	return TaskInput{Title: t.Title, Description: t.Description}.Validate()
}

// TaskPatch is a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string `json:"title"       validate:"omitnil,min=1,max=100"`
	Description *string `json:"description" validate:"omitnil,min=1,max=500"`
}

// Normalize returns a copy with every supplied field trimmed.
func (p TaskPatch) Normalize() TaskPatch {
	if p.Title != nil {
		v := strings.TrimSpace(*p.Title)
		p.Title = &v
	}
	if p.Description != nil {
		v := strings.TrimSpace(*p.Description)
		p.Description = &v
	}
	return p
}

// Validate reports every supplied field that violates the task rules.
func (p TaskPatch) Validate() error {
	return validateStruct(p)
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil
}

// Fields returns the patch as a field name to new value map, the shape
// recorded in the audit trail.
func (p TaskPatch) Fields() map[string]any {
	fields := make(map[string]any, 2)
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	return fields
}

// Diff returns the subset of p whose values differ from the task's current
// values.
func (t *Task) Diff(p TaskPatch) TaskPatch {
	var changes TaskPatch
	if p.Title != nil && *p.Title != t.Title {
		v := *p.Title
		changes.Title = &v
	}
	if p.Description != nil && *p.Description != t.Description {
		v := *p.Description
		changes.Description = &v
	}
	return changes
}

// Apply writes the patch into the task and stamps UpdatedAt.
func (t *Task) Apply(p TaskPatch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	t.UpdatedAt = now
}
