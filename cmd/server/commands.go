package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/phrazzld/tasklog-api/internal/config"
	"github.com/phrazzld/tasklog-api/internal/platform/logger"
	"github.com/phrazzld/tasklog-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tasklog-api",
		Short: "Shared task list API with user accounts and an audit trail",
		// Running the binary without a subcommand serves HTTP.
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down|status|version|reset]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version", "reset"},
		RunE:      runMigrate,
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)
	return rootCmd
}

// bootstrap loads configuration and installs the process logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("metrics_enabled", cfg.Server.MetricsEnabled),
		slog.Duration("token_lifetime", cfg.Auth.TokenLifetime))
	if cfg.Auth.UsesPlaceholderSecrets() {
		log.Warn("placeholder credentials in use; set TASKLOG_AUTH_JWT_SECRET and the shared credential before deploying")
	}
	return cfg, log, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, "up", log); err != nil {
			_ = db.Close()
			return fmt.Errorf("auto-migrate failed: %w", err)
		}
	}

	m := newMetrics(cfg)
	m.RegisterDB(db, "tasklog")

	app, err := newApplication(cfg, log, postgresDependencies(db, cfg, log), m)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	app.db = db

	return app.Run(ctx)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}()

	return postgres.Migrate(ctx, db, args[0], log)
}
