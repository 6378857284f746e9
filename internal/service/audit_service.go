package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/store"
)

// LogPage is one page of audit entries plus paging metadata.
type LogPage struct {
	Logs       []*domain.AuditLogEntry
	TotalLogs  int
	TotalPages int
	Page       int
	Limit      int
}

// AuditService is the read side of the audit trail.
type AuditService interface {
	ListLogs(ctx context.Context, page domain.PageRequest) (*LogPage, error)
}

type auditServiceImpl struct {
	audit  store.AuditStore
	logger *slog.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(audit store.AuditStore, logger *slog.Logger) AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &auditServiceImpl{
		audit:  audit,
		logger: logger.With(slog.String("component", "audit_service")),
	}
}

// ListLogs implements AuditService.ListLogs
func (s *auditServiceImpl) ListLogs(ctx context.Context, page domain.PageRequest) (*LogPage, error) {
	page = domain.NewPageRequest(page.Page, page.Limit, domain.DefaultLogPageLimit)

	logs, total, err := s.audit.List(ctx, page.Offset(), page.Limit)
	if err != nil {
		s.logger.Error("failed to list audit logs", slog.String("error", err.Error()))
		return nil, err
	}

	return &LogPage{
		Logs:       logs,
		TotalLogs:  total,
		TotalPages: domain.TotalPages(total, page.Limit),
		Page:       page.Page,
		Limit:      page.Limit,
	}, nil
}
