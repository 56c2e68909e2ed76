// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/digimark/internal/aggregate"
	"github.com/starford/digimark/internal/api"
	"github.com/starford/digimark/internal/auth"
	"github.com/starford/digimark/internal/mcpserver"
	"github.com/starford/digimark/internal/report"
	"github.com/starford/digimark/internal/service"
	"github.com/starford/digimark/internal/sse"
	"github.com/starford/digimark/internal/storage"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	rt, err := app.bootstrap(ctx, os.Stdout, service.WithNotifier(broker))
	if err != nil {
		return err
	}
	defer rt.close()
	logger := rt.logger

	authn, err := newAuthenticator(cfg, rt.svc)
	if err != nil {
		return err
	}
	apiRouter := api.NewRouter(rt.svc, authn, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := rt.svc.ListTasks(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if rt.metrics != nil {
		r.Handle(cfg.Metrics.Path, rt.metrics.Handler())
	}

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the data directory for writes from other processes.
	if fs, ok := rt.store.(*storage.FS); ok && cfg.Store.Watch {
		g.Go(func() error {
			err := storage.Watch(gCtx, fs, logger, func(key string) {
				rt.svc.Reloaded(gCtx, key)
			})
			if err != nil {
				logger.Warn("watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// SSE streams only end when their subscriber channels close.
		broker.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

func newAuthenticator(cfg *Config, svc *service.Service) (api.Authenticator, error) {
	if cfg.Auth.Mode != AuthModeJWT {
		return api.NewSessionAuth(svc), nil
	}
	tokens, err := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TTL)
	if err != nil {
		return nil, fmt.Errorf("init auth: %w", err)
	}
	return api.NewTokenAuth(svc, tokens), nil
}

// RunMCP serves the MCP tools on stdin/stdout.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	rt, err := app.bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.logger.Info("MCP server starting on stdio")
	return mcpserver.New(rt.svc, app.version).ServeStdio()
}

// RunSummary writes the dashboard for f to the configured output.
func RunSummary(ctx context.Context, f aggregate.Filter, format string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	rt, err := app.bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.close()

	d, err := rt.svc.Dashboard(ctx, f)
	if err != nil {
		return err
	}
	return report.Write(app.out, d, format)
}

// RunExport writes the CSV report for f into dir and returns the file path.
func RunExport(ctx context.Context, f aggregate.Filter, dir string, opts ...Option) (string, error) {
	app, err := newApplication(opts)
	if err != nil {
		return "", err
	}
	rt, err := app.bootstrap(ctx, os.Stderr)
	if err != nil {
		return "", err
	}
	defer rt.close()

	path := filepath.Join(dir, rt.svc.ExportFilename())
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	if err := rt.svc.Export(ctx, file, f); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close export: %w", err)
	}
	rt.logger.Info("export written", slog.String("path", path))
	return path, nil
}
