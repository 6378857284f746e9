package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTask(t *testing.T, a *testAPI, title, description string) *domain.Task {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/tasks", map[string]string{"title": title, "description": description})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp TaskResponse
	decodeResponse(t, rr, &resp)
	return resp.Task
}

func TestTaskHandler_CreateAndGet(t *testing.T) {
	userID := uuid.New()
	a := newTestAPI(t, domain.NewTokenIdentity(userID, "alice", "alice@example.com"))

	created := createTask(t, a, "Buy milk", "2 liters")

	rr := a.do(t, http.MethodGet, "/api/tasks/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp TaskResponse
	decodeResponse(t, rr, &resp)
	assert.Equal(t, created.ID, resp.Task.ID)
	assert.Equal(t, "Buy milk", resp.Task.Title)
	assert.Equal(t, "2 liters", resp.Task.Description)
	require.NotNil(t, resp.Task.CreatedBy)
	assert.Equal(t, userID, *resp.Task.CreatedBy)
	assert.Equal(t, "alice", resp.Task.CreatedByName)
	assert.True(t, created.CreatedAt.Equal(resp.Task.CreatedAt))
	assert.Contains(t, rr.Body.String(), `"createdAt"`)
	assert.Contains(t, rr.Body.String(), `"updatedAt"`)
}

func TestTaskHandler_CreateWithStaleToken(t *testing.T) {
	a := newTestAPI(t, domain.NewTokenIdentity(uuid.New(), "ghost", "ghost@example.com"))
	a.tasks.CreateError = fmt.Errorf("%w: foreign key violation", store.ErrInvalidEntity)

	rr := a.do(t, http.MethodPost, "/api/tasks", map[string]string{"title": "t", "description": "d"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())
}

func TestTaskHandler_CreateValidation(t *testing.T) {
	a := newTestAPI(t, domain.NewSharedIdentity("admin"))

	rr := a.do(t, http.MethodPost, "/api/tasks", map[string]string{
		"title":       strings.Repeat("x", domain.MaxTitleLength+1),
		"description": "  ",
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"errors":[
		{"param":"title","msg":"Title must be at most 100 characters"},
		{"param":"description","msg":"Description cannot be empty"}
	]}`, rr.Body.String())
	assert.Equal(t, 0, a.tasks.Len())
}

func TestTaskHandler_Get(t *testing.T) {
	a := newTestAPI(t, domain.NewSharedIdentity("admin"))

	t.Run("invalid id", func(t *testing.T) {
		rr := a.do(t, http.MethodGet, "/api/tasks/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid id"}`, rr.Body.String())
	})

	t.Run("unknown id", func(t *testing.T) {
		rr := a.do(t, http.MethodGet, "/api/tasks/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, rr.Body.String())
	})
}

func TestTaskHandler_Update(t *testing.T) {
	a := newTestAPI(t, domain.NewSharedIdentity("admin"))
	task := createTask(t, a, "Buy milk", "2 liters")
	path := "/api/tasks/" + task.ID.String()

	t.Run("identical values report no change", func(t *testing.T) {
		rr := a.do(t, http.MethodPut, path, map[string]string{"title": "Buy milk", "description": "2 liters"})

		require.Equal(t, http.StatusOK, rr.Code)
		var resp TaskResponse
		decodeResponse(t, rr, &resp)
		assert.Equal(t, MsgNoFieldsChanged, resp.Message)
		assert.Len(t, a.audit.Entries(), 1)
	})

	t.Run("title only", func(t *testing.T) {
		rr := a.do(t, http.MethodPut, path, map[string]string{"title": "Buy oat milk"})

		require.Equal(t, http.StatusOK, rr.Code)
		var resp TaskResponse
		decodeResponse(t, rr, &resp)
		assert.Empty(t, resp.Message)
		assert.Equal(t, "Buy oat milk", resp.Task.Title)
		assert.Equal(t, "2 liters", resp.Task.Description)

		entries := a.audit.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, domain.AuditActionUpdate, entries[1].Action)
		assert.Equal(t, map[string]any{"title": "Buy oat milk"}, entries[1].UpdatedContent)
		assert.Equal(t, "admin", entries[1].PerformedBy)
	})

	t.Run("blank title", func(t *testing.T) {
		rr := a.do(t, http.MethodPut, path, map[string]string{"title": " "})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"errors":[{"param":"title","msg":"Title cannot be empty"}]}`, rr.Body.String())
	})

	t.Run("unknown task", func(t *testing.T) {
		rr := a.do(t, http.MethodPut, "/api/tasks/"+uuid.NewString(), map[string]string{"title": "x"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unknown task with invalid body is a validation error", func(t *testing.T) {
		rr := a.do(t, http.MethodPut, "/api/tasks/"+uuid.NewString(), map[string]string{"title": " "})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"errors":[{"param":"title","msg":"Title cannot be empty"}]}`, rr.Body.String())
	})

	t.Run("invalid id", func(t *testing.T) {
		rr := a.do(t, http.MethodPut, "/api/tasks/123", map[string]string{"title": "x"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	a := newTestAPI(t, domain.NewSharedIdentity("admin"))
	task := createTask(t, a, "Buy milk", "2 liters")
	path := "/api/tasks/" + task.ID.String()

	rr := a.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Deleted"}`, rr.Body.String())

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, path, nil).Code)

	entries := a.audit.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditActionDelete, entries[1].Action)
}

func TestTaskHandler_List(t *testing.T) {
	a := newTestAPI(t, domain.NewSharedIdentity("admin"))
	createTask(t, a, "Buy milk", "2 liters")
	for i := 0; i < 6; i++ {
		createTask(t, a, "Chore", "weekly")
	}

	t.Run("defaults", func(t *testing.T) {
		rr := a.do(t, http.MethodGet, "/api/tasks", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp TaskListResponse
		decodeResponse(t, rr, &resp)
		assert.Len(t, resp.Tasks, 5)
		assert.Equal(t, ListMeta{Total: 7, Page: 1, Limit: 5, TotalPages: 2}, resp.Meta)
	})

	t.Run("search is case insensitive on either field", func(t *testing.T) {
		for _, term := range []string{"milk", "BUY", "LITERS"} {
			rr := a.do(t, http.MethodGet, "/api/tasks?search="+term, nil)
			require.Equal(t, http.StatusOK, rr.Code)
			var resp TaskListResponse
			decodeResponse(t, rr, &resp)
			require.Len(t, resp.Tasks, 1, term)
			assert.Equal(t, "Buy milk", resp.Tasks[0].Title)
		}
	})

	t.Run("page beyond range is empty", func(t *testing.T) {
		rr := a.do(t, http.MethodGet, "/api/tasks?page=5&limit=5", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"tasks":[]`)
		var resp TaskListResponse
		decodeResponse(t, rr, &resp)
		assert.Equal(t, 7, resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.TotalPages)
	})

	t.Run("huge page does not wrap to the first page", func(t *testing.T) {
		rr := a.do(t, http.MethodGet, "/api/tasks?page=4611686018427387904&limit=4", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"tasks":[]`)
		var resp TaskListResponse
		decodeResponse(t, rr, &resp)
		assert.Empty(t, resp.Tasks)
		assert.Equal(t, 7, resp.Meta.Total)
		assert.Equal(t, 4, resp.Meta.Limit)
	})

	t.Run("non-numeric paging falls back to defaults", func(t *testing.T) {
		rr := a.do(t, http.MethodGet, "/api/tasks?page=abc&limit=-3", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp TaskListResponse
		decodeResponse(t, rr, &resp)
		assert.Equal(t, 1, resp.Meta.Page)
		assert.Equal(t, 5, resp.Meta.Limit)
	})
}
