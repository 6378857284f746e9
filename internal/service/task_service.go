package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/platform/logger"
	"github.com/phrazzld/tasklog-api/internal/platform/metrics"
	"github.com/phrazzld/tasklog-api/internal/store"
)

// TaskPage is one page of tasks plus paging metadata.
type TaskPage struct {
	Tasks      []*domain.Task
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// UpdateResult reports the task after an update and whether anything changed.
type UpdateResult struct {
	Task    *domain.Task
	Changed bool
}

// TaskService is the audit-logged task mutation pipeline plus task reads.
// Every successful mutation writes exactly one audit entry in the same
// transaction as the task write.
type TaskService interface {
	Create(ctx context.Context, input domain.TaskInput, by *domain.Identity) (*domain.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	List(ctx context.Context, search string, page domain.PageRequest) (*TaskPage, error)

	// Update applies only the supplied fields that differ from the stored
	// task. When nothing differs no write and no audit entry happen and
	// Changed is false.
	Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch, by *domain.Identity) (*UpdateResult, error)

	Delete(ctx context.Context, id uuid.UUID, by *domain.Identity) error
}

type taskServiceImpl struct {
	tasks   store.TaskStore
	audit   store.AuditStore
	runTx   store.TxRunner
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	audit store.AuditStore,
	runTx store.TxRunner,
	m *metrics.Metrics,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, NewTaskServiceError("init", "task store is required", domain.ErrValidation)
	}
	if audit == nil {
		return nil, NewTaskServiceError("init", "audit store is required", domain.ErrValidation)
	}
	if runTx == nil {
		return nil, NewTaskServiceError("init", "transaction runner is required", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:   tasks,
		audit:   audit,
		runTx:   runTx,
		metrics: m,
		logger:  logger.With(slog.String("component", "task_service")),
		now:     domain.Now,
	}, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(ctx context.Context, input domain.TaskInput, by *domain.Identity) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(input, by)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).Create(ctx, task); err != nil {
			return err
		}
		return s.appendAudit(ctx, tx, domain.AuditActionCreate, task.ID, map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"createdAt":   task.CreatedAt,
		}, by.Label(domain.PerformedBySystem))
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) && by != nil && by.UserID != nil {
			log.Warn("task creator has no account", slog.String("user_id", by.UserID.String()))
			return nil, fmt.Errorf("%w: token user no longer exists", domain.ErrUnauthorized)
		}
		log.Error("failed to create task", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create", "transaction failed", err)
	}

	s.metrics.TaskMutation(string(domain.AuditActionCreate))
	log.Info("task created", slog.String("task_id", task.ID.String()))
	return task, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewTaskServiceError("get", "failed to load task", err)
	}
	return task, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, search string, page domain.PageRequest) (*TaskPage, error) {
	page = domain.NewPageRequest(page.Page, page.Limit, domain.DefaultTaskPageLimit)

	tasks, total, err := s.tasks.List(ctx, store.TaskFilter{
		Search: search,
		Offset: page.Offset(),
		Limit:  page.Limit,
	})
	if err != nil {
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}

	return &TaskPage{
		Tasks:      tasks,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: domain.TotalPages(total, page.Limit),
	}, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	patch domain.TaskPatch,
	by *domain.Identity,
) (*UpdateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var result *UpdateResult
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		changes := task.Diff(patch)
		if changes.IsEmpty() {
			result = &UpdateResult{Task: task, Changed: false}
			return nil
		}

		now := s.now()
		if err := txTasks.UpdateFields(ctx, id, changes, now); err != nil {
			return err
		}
		if err := s.appendAudit(ctx, tx, domain.AuditActionUpdate, id, changes.Fields(),
			by.Label(domain.PerformedByUnknown)); err != nil {
			return err
		}

		task.Apply(changes, now)
		result = &UpdateResult{Task: task, Changed: true}
		return nil
	})
	if err != nil {
		if isExpected(err) {
			return nil, err
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, NewTaskServiceError("update", "transaction failed", err)
	}

	if result.Changed {
		s.metrics.TaskMutation(string(domain.AuditActionUpdate))
		log.Info("task updated", slog.String("task_id", id.String()))
	} else {
		log.Debug("task update skipped: no fields changed", slog.String("task_id", id.String()))
	}
	return result, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, id uuid.UUID, by *domain.Identity) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		if _, err := txTasks.GetByID(ctx, id); err != nil {
			return err
		}
		if err := txTasks.Delete(ctx, id); err != nil {
			return err
		}
		return s.appendAudit(ctx, tx, domain.AuditActionDelete, id, nil, by.Label(domain.PerformedByUnknown))
	})
	if err != nil {
		if isExpected(err) {
			return err
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return NewTaskServiceError("delete", "transaction failed", err)
	}

	s.metrics.TaskMutation(string(domain.AuditActionDelete))
	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

func (s *taskServiceImpl) appendAudit(
	ctx context.Context,
	tx *sql.Tx,
	action domain.AuditAction,
	taskID uuid.UUID,
	content map[string]any,
	performedBy string,
) error {
	entry, err := domain.NewAuditLogEntry(action, taskID, content, performedBy)
	if err != nil {
		return err
	}
	return s.audit.WithTx(tx).Append(ctx, entry)
}

// isExpected reports whether err is a client-facing outcome rather than a
// failure worth wrapping.
func isExpected(err error) bool {
	return store.IsNotFoundError(err) || errors.Is(err, domain.ErrValidation)
}
