package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasklog-api/internal/api/shared"
	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/mocks"
	"github.com/phrazzld/tasklog-api/internal/service"
	"github.com/phrazzld/tasklog-api/internal/service/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testAPI wires the handlers to real services over in-memory stores.
type testAPI struct {
	router http.Handler
	users  *mocks.MockUserStore
	tasks  *mocks.MockTaskStore
	audit  *mocks.MockAuditStore
}

func newTestAPI(t *testing.T, identity *domain.Identity) *testAPI {
	t.Helper()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	audit := mocks.NewMockAuditStore()

	tokens := &mocks.MockJWTService{Token: "test-token"}
	userSvc := service.NewUserService(users, tokens, auth.NewBcryptVerifier(), bcrypt.MinCost, nil, nil)
	taskSvc, err := service.NewTaskService(tasks, audit, mocks.PassthroughTxRunner, nil, nil)
	require.NoError(t, err)
	auditSvc := service.NewAuditService(audit, nil)

	authHandler := NewAuthHandler(userSvc, nil)
	taskHandler := NewTaskHandler(taskSvc)
	logHandler := NewLogHandler(auditSvc)

	r := chi.NewRouter()
	r.Post("/api/auth/signup", authHandler.Signup)
	r.Post("/api/auth/signin", authHandler.Signin)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if identity != nil {
					req = req.WithContext(shared.WithIdentity(req.Context(), identity))
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Get("/api/tasks", taskHandler.List)
		r.Post("/api/tasks", taskHandler.Create)
		r.Get("/api/tasks/{id}", taskHandler.Get)
		r.Put("/api/tasks/{id}", taskHandler.Update)
		r.Delete("/api/tasks/{id}", taskHandler.Delete)
		r.Get("/api/logs", logHandler.List)
	})

	return &testAPI{router: r, users: users, tasks: tasks, audit: audit}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(strings.NewReader(rr.Body.String())).Decode(v))
}
