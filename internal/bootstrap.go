package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/digimark/internal/metrics"
	"github.com/starford/digimark/internal/repository"
	"github.com/starford/digimark/internal/service"
	"github.com/starford/digimark/internal/storage"
)

// deps is everything the commands share: logger, store and service.
type deps struct {
	cfg     *Config
	logger  *slog.Logger
	store   storage.Store
	metrics *metrics.Collector
	svc     *service.Service
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// bootstrap builds the shared runtime. Logs go to logOut; the MCP command
// passes stderr because stdout carries the protocol.
func (a *application) bootstrap(ctx context.Context, logOut io.Writer, svcOpts ...service.Option) (*deps, error) {
	cfg := a.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("store_path", cfg.Store.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.Bool("metrics_enabled", cfg.Metrics.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// The file driver needs its data directory.
	if cfg.Store.Driver == storage.DriverFile {
		if err := os.MkdirAll(cfg.Store.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	store, err := storage.Open(ctx, cfg.Store.Options())
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	rt := &deps{cfg: cfg, logger: logger, store: store}
	if cfg.Metrics.Enabled {
		rt.metrics = metrics.New()
		svcOpts = append(svcOpts, service.WithMetrics(rt.metrics))
	}
	rt.svc = service.New(repository.New(store), logger, svcOpts...)

	if err := rt.svc.Refresh(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load collections: %w", err)
	}
	return rt, nil
}

func (rt *deps) close() {
	if err := rt.store.Close(); err != nil {
		rt.logger.Error("store close failed", slog.String("error", err.Error()))
	}
}
