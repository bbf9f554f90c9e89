// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsmith/seedling/internal/config"
	"github.com/opsmith/seedling/internal/pkg/ctxlog"
	"github.com/opsmith/seedling/internal/pkg/metrics"
	"github.com/opsmith/seedling/internal/pkg/migrate"
	"github.com/opsmith/seedling/internal/pkg/postgres"
	"github.com/opsmith/seedling/internal/seed"
	seedpostgres "github.com/opsmith/seedling/internal/seed/postgres"
)

// App represents the seeder instance.
type App struct {
	config *config.Config
	logger *slog.Logger
	db     *pgxpool.Pool
}

// New creates a new seeder instance: it configures logging, connects to the
// database and, unless disabled, brings the schema up to date.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)
	slog.SetDefault(logger)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer connectCancel()

	db, err := postgres.Connect(connectCtx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if cfg.Database.Migrate {
		if err := migrate.Up(cfg.Database.URL); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
	}, nil
}

// Run executes the seed procedure and logs a summary of the created records.
func (a *App) Run(ctx context.Context) (*seed.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	start := time.Now()

	service := seed.NewService(seedpostgres.NewRepository(a.db))

	result, err := service.Run(ctx, seed.Input{
		AdminEmail:      a.config.Seed.Admin.Email,
		AdminPassword:   a.config.Seed.Admin.Password,
		AdminFirstName:  a.config.Seed.Admin.FirstName,
		AdminLastName:   a.config.Seed.Admin.LastName,
		ProjectName:     a.config.Seed.Project.Name,
		ProjectUniqueID: a.config.Seed.Project.UniqueID,
		BcryptCost:      a.config.Seed.BcryptCost,
	})

	a.pushMetrics(time.Since(start), err == nil)

	if err != nil {
		return nil, err
	}

	a.logger.Info("database seeded",
		"run_id", result.RunID,
		"admin_id", result.Admin.ID,
		"admin_email", result.Admin.Email,
		"admin_role", string(result.Admin.Role),
		"project_id", result.Project.ID,
		"project_name", result.Project.Name,
		"project_unique_id", result.Project.UniqueID,
	)

	return result, nil
}

// Close releases the database connection pool.
func (a *App) Close() {
	a.db.Close()
	a.logger.Info("database connection released")
}

// DB returns the connection pool. Used in tests to inspect seeded state.
func (a *App) DB() *pgxpool.Pool {
	return a.db
}

func (a *App) pushMetrics(duration time.Duration, succeeded bool) {
	if a.config.Metrics.PushgatewayURL == "" {
		return
	}
	err := metrics.Push(a.config.Metrics.PushgatewayURL, a.config.Metrics.JobName, duration, succeeded)
	if err != nil {
		a.logger.Warn("failed to push job metrics", "error", err)
	}
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
