package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds the shared dependencies so they can be cleaned up
// together on shutdown.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry

	pool      *postgres.Pool
	taskStore store.TaskStore
}

// newApplication builds the pool and store. An unreachable database is
// logged but not fatal; requests that need it fail with 500 instead.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database, logger, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Warn("database not reachable at startup", slog.String("error", err.Error()))
	} else {
		logger.Info("database connection verified")
	}

	return &application{
		config:    cfg,
		logger:    logger,
		registry:  registry,
		pool:      pool,
		taskStore: postgres.NewPostgresTaskStore(pool),
	}, nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.pool != nil {
		app.pool.Close()
	}
}
