package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/platform/logger"
	"github.com/phrazzld/tasklog-api/internal/store"
)

// PostgresAuditStore implements the store.AuditStore interface.
// The table has no foreign key to tasks so entries survive task deletion.
type PostgresAuditStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAuditStore creates a new PostgreSQL implementation of the AuditStore interface.
func NewPostgresAuditStore(db store.DBTX, logger *slog.Logger) *PostgresAuditStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAuditStore{
		db:     db,
		logger: logger.With(slog.String("component", "audit_store")),
	}
}

var _ store.AuditStore = (*PostgresAuditStore)(nil)

// WithTx implements store.AuditStore.WithTx
func (s *PostgresAuditStore) WithTx(tx *sql.Tx) store.AuditStore {
	return &PostgresAuditStore{db: tx, logger: s.logger}
}

// Append implements store.AuditStore.Append
func (s *PostgresAuditStore) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	content, err := json.Marshal(entry.UpdatedContent)
	if err != nil {
		return fmt.Errorf("%w: updated content: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO audit_logs (id, timestamp, action, task_id, updated_content, performed_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Timestamp,
		string(entry.Action),
		entry.TaskID,
		content,
		entry.PerformedBy,
	)
	if err != nil {
		log.Error("failed to append audit entry",
			slog.String("error", err.Error()),
			slog.String("task_id", entry.TaskID.String()),
			slog.String("action", string(entry.Action)))
		return MapError(err)
	}

	log.Debug("audit entry appended",
		slog.String("task_id", entry.TaskID.String()),
		slog.String("action", string(entry.Action)))
	return nil
}

// List implements store.AuditStore.List
func (s *PostgresAuditStore) List(ctx context.Context, offset, limit int) ([]*domain.AuditLogEntry, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = domain.DefaultLogPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&total); err != nil {
		log.Error("failed to count audit entries", slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("audit_log", "list", "count failed", MapError(err))
	}

	query := `
		SELECT id, timestamp, action, task_id, updated_content, performed_by
		FROM audit_logs
		ORDER BY timestamp DESC, id
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		log.Error("failed to list audit entries", slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("audit_log", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*domain.AuditLogEntry, 0, limit)
	for rows.Next() {
		var (
			entry   domain.AuditLogEntry
			action  string
			content []byte
		)
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &action, &entry.TaskID, &content, &entry.PerformedBy); err != nil {
			return nil, 0, store.NewStoreError("audit_log", "list", "scan failed", err)
		}
		entry.Action = domain.AuditAction(action)
		entry.UpdatedContent = map[string]any{}
		if len(content) > 0 {
			if err := json.Unmarshal(content, &entry.UpdatedContent); err != nil {
				return nil, 0, store.NewStoreError("audit_log", "list", "decode content", err)
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, store.NewStoreError("audit_log", "list", "iteration failed", err)
	}

	return entries, total, nil
}
