package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/tasklog-api/internal/api"
	"github.com/phrazzld/tasklog-api/internal/config"
	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           0,
			LogLevel:       "error",
			MetricsEnabled: true,
			MaxBodyBytes:   4 << 10,
		},
		Auth: config.AuthConfig{
			JWTSecret:      "router-test-secret-at-least-32-characters",
			TokenLifetime:  time.Hour,
			SharedUsername: "admin",
			SharedPassword: "password123",
			BcryptCost:     bcrypt.MinCost,
		},
	}
}

type testServer struct {
	handler http.Handler
	audit   *mocks.MockAuditStore
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	audit := mocks.NewMockAuditStore()
	deps := dependencies{
		users: mocks.NewMockUserStore(),
		tasks: mocks.NewMockTaskStore(),
		audit: audit,
		runTx: mocks.PassthroughTxRunner,
	}

	app, err := newApplication(cfg, logger, deps, newMetrics(cfg))
	require.NoError(t, err)
	return &testServer{handler: app.setupRouter(), audit: audit}
}

func (s *testServer) do(t *testing.T, method, path, authHeader string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, testConfig())

	rr := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestRouter_ProtectedRoutesChallenge(t *testing.T) {
	s := newTestServer(t, testConfig())

	cases := []struct {
		name   string
		method string
		path   string
		auth   string
	}{
		{"no header on tasks", http.MethodGet, "/api/tasks", ""},
		{"no header on logs", http.MethodGet, "/api/logs", ""},
		{"malformed bearer", http.MethodPost, "/api/tasks", "Bearer not.a.jwt"},
		{"wrong basic password", http.MethodDelete, "/api/tasks/00000000-0000-0000-0000-000000000001", basicAuth("admin", "wrong")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := s.do(t, tc.method, tc.path, tc.auth, nil)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, `Basic realm="TaskManager"`, rr.Header().Get("WWW-Authenticate"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, "Unauthorized", body["error"])
		})
	}
}

// signup, signin, a failed signin, then a token-authenticated create that
// leaves exactly one CREATE entry in the trail.
func TestRouter_AccountAndTaskScenario(t *testing.T) {
	s := newTestServer(t, testConfig())

	signup := s.do(t, http.MethodPost, "/api/auth/signup", "", api.SignupRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, signup.Code, signup.Body.String())
	var created api.SignupResponse
	require.NoError(t, json.Unmarshal(signup.Body.Bytes(), &created))

	signin := s.do(t, http.MethodPost, "/api/auth/signin", "", api.SigninRequest{
		Email: "alice@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusOK, signin.Code, signin.Body.String())
	var session api.SigninResponse
	require.NoError(t, json.Unmarshal(signin.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	assert.Equal(t, created.User.ID, session.User.UserID)

	bad := s.do(t, http.MethodPost, "/api/auth/signin", "", api.SigninRequest{
		Email: "alice@example.com", Password: "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, stripTrace(t, bad.Body.Bytes()))

	bearer := "Bearer " + session.Token
	createResp := s.do(t, http.MethodPost, "/api/tasks", bearer, map[string]string{
		"title": "Buy milk", "description": "2 liters",
	})
	require.Equal(t, http.StatusCreated, createResp.Code, createResp.Body.String())
	var task api.TaskResponse
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &task))
	require.NotNil(t, task.Task.CreatedBy)
	assert.Equal(t, created.User.ID, *task.Task.CreatedBy)
	assert.Equal(t, "alice", task.Task.CreatedByName)

	// The shared credential reads the same trail.
	logs := s.do(t, http.MethodGet, "/api/logs", basicAuth("admin", "password123"), nil)
	require.Equal(t, http.StatusOK, logs.Code)
	var trail api.LogListResponse
	require.NoError(t, json.Unmarshal(logs.Body.Bytes(), &trail))
	require.Len(t, trail.Logs, 1)
	assert.Equal(t, domain.AuditActionCreate, trail.Logs[0].Action)
	assert.Equal(t, task.Task.ID, trail.Logs[0].TaskID)
	assert.Equal(t, "alice", trail.Logs[0].PerformedBy)

	// A shared-credential update is attributed to the operator.
	update := s.do(t, http.MethodPut, "/api/tasks/"+task.Task.ID.String(), basicAuth("admin", "password123"),
		map[string]string{"title": "Buy oat milk"})
	require.Equal(t, http.StatusOK, update.Code)
	entries := s.audit.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "admin", entries[1].PerformedBy)
}

func TestRouter_BodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 64
	s := newTestServer(t, cfg)

	body := `{"title":"` + strings.Repeat("x", 200) + `","description":"d"}`
	rr := s.do(t, http.MethodPost, "/api/tasks", basicAuth("admin", "password123"), body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestRouter_Metrics(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		s := newTestServer(t, testConfig())
		s.do(t, http.MethodGet, "/health", "", nil)

		rr := s.do(t, http.MethodGet, "/metrics", "", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `tasklog_http_requests_total{method="GET",route="/health",status="200"} 1`)
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Server.MetricsEnabled = false
		s := newTestServer(t, cfg)

		rr := s.do(t, http.MethodGet, "/metrics", "", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestNewApplication_RejectsWeakSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = "short"

	_, err := newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), dependencies{
		users: mocks.NewMockUserStore(),
		tasks: mocks.NewMockTaskStore(),
		audit: mocks.NewMockAuditStore(),
		runTx: mocks.PassthroughTxRunner,
	}, nil)

	assert.Error(t, err)
}

func TestApplicationRun_StopsOnCancel(t *testing.T) {
	cfg := testConfig()
	app, err := newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), dependencies{
		users: mocks.NewMockUserStore(),
		tasks: mocks.NewMockTaskStore(),
		audit: mocks.NewMockAuditStore(),
		runTx: mocks.PassthroughTxRunner,
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

// stripTrace drops the optional trace_id so bodies can be compared exactly.
func stripTrace(t *testing.T, raw []byte) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	delete(body, "trace_id")
	out, err := json.Marshal(body)
	require.NoError(t, err)
	return string(out)
}
