package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklog-api/internal/config"
	"github.com/phrazzld/tasklog-api/internal/platform/metrics"
	"github.com/phrazzld/tasklog-api/internal/platform/postgres"
	"github.com/phrazzld/tasklog-api/internal/service"
	"github.com/phrazzld/tasklog-api/internal/service/auth"
	"github.com/phrazzld/tasklog-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

// dependencies are the storage-facing parts of the application. Production
// wires them to Postgres; tests substitute in-memory stores.
type dependencies struct {
	users store.UserStore
	tasks store.TaskStore
	audit store.AuditStore
	runTx store.TxRunner
}

// postgresDependencies builds the Postgres-backed stores over db.
func postgresDependencies(db *sql.DB, cfg *config.Config, logger *slog.Logger) dependencies {
	return dependencies{
		users: postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger),
		tasks: postgres.NewPostgresTaskStore(db, logger),
		audit: postgres.NewPostgresAuditStore(db, logger),
		runTx: store.DBTxRunner(db),
	}
}

// newMetrics returns the collector set, or nil when metrics are disabled.
// Every *metrics.Metrics method tolerates a nil receiver.
func newMetrics(cfg *config.Config) *metrics.Metrics {
	if !cfg.Server.MetricsEnabled {
		return nil
	}
	return metrics.New(prometheus.NewRegistry())
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	// db is nil when the stores are not database-backed.
	db *sql.DB

	jwtService       auth.JWTService
	sharedCredential auth.SharedCredential

	userService  service.UserService
	taskService  service.TaskService
	auditService service.AuditService
}

// newApplication creates a new application instance with all services initialized.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	deps dependencies,
	m *metrics.Metrics,
) (*application, error) {
	app := &application{
		config:           cfg,
		logger:           logger,
		metrics:          m,
		sharedCredential: auth.NewSharedCredential(cfg.Auth.SharedUsername, cfg.Auth.SharedPassword),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Duration("token_lifetime", cfg.Auth.TokenLifetime))

	app.userService = service.NewUserService(
		deps.users,
		app.jwtService,
		auth.NewBcryptVerifier(),
		cfg.Auth.BcryptCost,
		m,
		logger,
	)

	app.taskService, err = service.NewTaskService(deps.tasks, deps.audit, deps.runTx, m, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.auditService = service.NewAuditService(deps.audit, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("Application shutdown completed")
}
