package api

import (
	"net/http"

	"github.com/phrazzld/tasklog-api/internal/api/shared"
	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/service"
)

// LogHandler serves the read-only audit trail.
type LogHandler struct {
	audit service.AuditService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(audit service.AuditService) *LogHandler {
	return &LogHandler{audit: audit}
}

// List handles GET /api/logs?page=&limit=.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.audit.ListLogs(r.Context(), pageFromQuery(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logs := page.Logs
	if logs == nil {
		logs = []*domain.AuditLogEntry{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, LogListResponse{
		Logs: logs,
		Meta: LogMeta{
			TotalLogs:  page.TotalLogs,
			TotalPages: page.TotalPages,
			Page:       page.Page,
			Limit:      page.Limit,
		},
	})
}
