package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/store"
)

// MockTaskStore is an in-memory store.TaskStore.
type MockTaskStore struct {
	// Injected errors, returned before any state change.
	CreateError error
	GetError    error
	UpdateError error
	DeleteError error
	ListError   error

	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	// UpdateCalls counts UpdateFields invocations that reached the store.
	UpdateCalls int
}

// NewMockTaskStore creates an empty store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	out := *task
	return &out, nil
}

// UpdateFields implements store.TaskStore.
func (m *MockTaskStore) UpdateFields(ctx context.Context, id uuid.UUID, changes domain.TaskPatch, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	task, ok := m.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	task.Apply(changes, updatedAt)
	return nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// List implements store.TaskStore with case-insensitive literal matching.
func (m *MockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, int, error) {
	if m.ListError != nil {
		return nil, 0, m.ListError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(filter.Search)
	var matched []*domain.Task
	for _, task := range m.tasks {
		if needle == "" ||
			strings.Contains(strings.ToLower(task.Title), needle) ||
			strings.Contains(strings.ToLower(task.Description), needle) {
			out := *task
			matched = append(matched, &out)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset < 0 {
		filter.Offset = 0
	}
	total := len(matched)
	page := make([]*domain.Task, 0)
	if filter.Offset < total {
		end := filter.Offset + filter.Limit
		if end > total || end < filter.Offset {
			end = total
		}
		page = append(page, matched[filter.Offset:end]...)
	}
	return page, total, nil
}

// Len returns the number of stored tasks.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// WithTx returns the same store; the fake has no transactions.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
