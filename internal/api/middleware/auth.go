package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/tasklog-api/internal/api/shared"
	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/platform/logger"
	"github.com/phrazzld/tasklog-api/internal/platform/metrics"
	"github.com/phrazzld/tasklog-api/internal/redact"
	"github.com/phrazzld/tasklog-api/internal/service/auth"
)

// Realm is advertised in the Basic challenge on every rejection.
const Realm = "TaskManager"

const bearerPrefix = "Bearer "

// Auth method labels used in metrics.
const (
	methodBearer = "bearer"
	methodBasic  = "basic"
	methodNone   = "none"
)

// AuthMiddleware resolves the request identity from either a session token
// or the shared operator credential.
type AuthMiddleware struct {
	jwtService auth.JWTService
	shared     auth.SharedCredential
	metrics    *metrics.Metrics
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, shared auth.SharedCredential, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		shared:     shared,
		metrics:    m,
	}
}

// Authenticate admits a request carrying a valid Bearer token or matching
// Basic credentials and stores the resulting identity in the context.
// A request presenting a Bearer token is judged on that token alone.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		header := r.Header.Get("Authorization")

		if strings.HasPrefix(header, bearerPrefix) {
			token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			claims, err := m.jwtService.ValidateToken(r.Context(), token)
			if err != nil {
				log.Debug("bearer token rejected", slog.String("error", redact.Error(err)))
				m.reject(w, r, methodBearer)
				return
			}
			m.admit(w, r, next, methodBearer, claims.Identity())
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			m.reject(w, r, methodNone)
			return
		}
		if !m.shared.Matches(username, password) {
			log.Debug("basic credentials rejected")
			m.reject(w, r, methodBasic)
			return
		}
		m.admit(w, r, next, methodBasic, domain.NewSharedIdentity(m.shared.Username()))
	})
}

func (m *AuthMiddleware) admit(
	w http.ResponseWriter,
	r *http.Request,
	next http.Handler,
	method string,
	id *domain.Identity,
) {
	m.metrics.AuthAttempt(method, metrics.ResultSuccess)
	ctx := shared.WithIdentity(r.Context(), id)
	ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With(
		slog.String("auth_method", string(id.Method)),
		slog.String("username", id.Username)))
	next.ServeHTTP(w, r.WithContext(ctx))
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, method string) {
	m.metrics.AuthAttempt(method, metrics.ResultFailure)
	w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`"`)
	shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
}
