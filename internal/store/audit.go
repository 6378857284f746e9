package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasklog-api/internal/domain"
)

// AuditStore is the append-only audit trail. It exposes no update or delete.
type AuditStore interface {
	// Append records one entry.
	Append(ctx context.Context, entry *domain.AuditLogEntry) error

	// List returns one page of entries, newest first, and the total count.
	List(ctx context.Context, offset, limit int) ([]*domain.AuditLogEntry, int, error)

	// WithTx returns a new AuditStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AuditStore
}
