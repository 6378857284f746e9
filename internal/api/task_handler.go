package api

import (
	"net/http"

	"github.com/phrazzld/tasklog-api/internal/api/shared"
	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/service"
)

// TaskHandler serves the /api/tasks endpoints.
type TaskHandler struct {
	tasks service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List handles GET /api/tasks?search=&page=&limit=.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.tasks.List(r.Context(), r.URL.Query().Get("search"), pageFromQuery(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Tasks: nonNilTasks(page.Tasks),
		Meta: ListMeta{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	})
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{Task: task})
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.TaskInput
	if err := decodeBody(r, &input); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), input, identityFromRequest(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskResponse{Task: task})
}

// Update handles PUT /api/tasks/{id}. Only supplied fields are considered.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var patch domain.TaskPatch
	if err := decodeBody(r, &patch); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.tasks.Update(r.Context(), id, patch, identityFromRequest(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := TaskResponse{Task: result.Task}
	if !result.Changed {
		resp.Message = MsgNoFieldsChanged
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), id, identityFromRequest(r)); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: MsgDeleted})
}

func nonNilTasks(tasks []*domain.Task) []*domain.Task {
	if tasks == nil {
		return []*domain.Task{}
	}
	return tasks
}
