package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]interface{}{"message": "ok"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, w.Body.String())
}

func TestRespondWithError_IncludesTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/x", nil)
	req = req.WithContext(SetTraceID(req.Context()))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Not found", resp.Error)
	assert.Equal(t, GetTraceID(req.Context()), resp.TraceID)
}

func TestRespondWithError_OmitsEmptyTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusUnauthorized, "Unauthorized")

	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestRespondWithValidationErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
	w := httptest.NewRecorder()

	RespondWithValidationErrors(w, req, domain.ValidationErrors{
		{Param: "title", Msg: "Title cannot be empty"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":[{"param":"title","msg":"Title cannot be empty"}]}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	newRequest := func(buf *bytes.Buffer) *http.Request {
		l := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
		return req.WithContext(logger.WithLogger(req.Context(), l))
	}

	t.Run("server error is logged redacted and hidden from the client", func(t *testing.T) {
		var buf bytes.Buffer
		req := newRequest(&buf)
		w := httptest.NewRecorder()
		err := errors.New("connect postgres://app:hunter2@db:5432/tasks: refused")

		RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "Server error", err)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "hunter2")

		logged := buf.String()
		assert.Contains(t, logged, `"level":"ERROR"`)
		assert.Contains(t, logged, "[REDACTED_CREDENTIAL]")
		assert.NotContains(t, logged, "hunter2")
	})

	t.Run("client error logs at debug", func(t *testing.T) {
		var buf bytes.Buffer
		RespondWithErrorAndLog(httptest.NewRecorder(), newRequest(&buf), http.StatusNotFound, "Not found", errors.New("missing"))
		assert.Contains(t, buf.String(), `"level":"DEBUG"`)
	})

	t.Run("elevated client error logs at warn", func(t *testing.T) {
		var buf bytes.Buffer
		RespondWithErrorAndLog(httptest.NewRecorder(), newRequest(&buf), http.StatusUnauthorized, "Unauthorized",
			errors.New("bad signature"), WithElevatedLogLevel())
		assert.Contains(t, buf.String(), `"level":"WARN"`)
	})
}
