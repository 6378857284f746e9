package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklog-api/internal/domain"
)

// TaskFilter selects one page of tasks.
type TaskFilter struct {
	// Search is matched case-insensitively against title or description.
	// Empty matches everything.
	Search string
	Offset int
	Limit  int
}

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// UpdateFields writes only the fields set in changes and stamps updatedAt.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateFields(ctx context.Context, id uuid.UUID, changes domain.TaskPatch, updatedAt time.Time) error

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns the tasks matching filter, newest first, together with
	// the total number of matches across all pages.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, int, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
