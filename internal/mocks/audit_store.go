package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/store"
)

// MockAuditStore is an in-memory, append-only store.AuditStore.
type MockAuditStore struct {
	AppendError error
	ListError   error

	mu      sync.Mutex
	entries []*domain.AuditLogEntry
}

// NewMockAuditStore creates an empty audit store.
func NewMockAuditStore() *MockAuditStore {
	return &MockAuditStore{}
}

var _ store.AuditStore = (*MockAuditStore)(nil)

// Append implements store.AuditStore.
func (m *MockAuditStore) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *entry
	m.entries = append(m.entries, &stored)
	return nil
}

// List implements store.AuditStore, newest first.
func (m *MockAuditStore) List(ctx context.Context, offset, limit int) ([]*domain.AuditLogEntry, int, error) {
	if m.ListError != nil {
		return nil, 0, m.ListError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Reverse first so equal timestamps keep later appends first.
	sorted := make([]*domain.AuditLogEntry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		sorted = append(sorted, m.entries[i])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	if offset < 0 {
		offset = 0
	}
	total := len(sorted)
	page := make([]*domain.AuditLogEntry, 0)
	if offset < total {
		end := offset + limit
		if end > total || end < offset {
			end = total
		}
		page = append(page, sorted[offset:end]...)
	}
	return page, total, nil
}

// Entries returns every entry in append order.
func (m *MockAuditStore) Entries() []*domain.AuditLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditLogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// WithTx returns the same store; the fake has no transactions.
func (m *MockAuditStore) WithTx(tx *sql.Tx) store.AuditStore {
	return m
}
