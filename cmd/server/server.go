package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// startHTTPServer serves router on all interfaces until ctx is canceled or
// the server fails, then shuts down gracefully and releases resources.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := &http.Server{
		Addr:              net.JoinHostPort("0.0.0.0", strconv.Itoa(app.config.Server.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	servers := []*http.Server{server}
	if app.config.Metrics.Port > 0 {
		servers = append(servers, &http.Server{
			Addr:              net.JoinHostPort("0.0.0.0", strconv.Itoa(app.config.Metrics.Port)),
			Handler:           promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			app.logger.Info("starting server", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server on %s failed: %w", srv.Addr, err)
			}
		}(srv)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	case serveErr = <-errCh:
		app.logger.Error("server failed", slog.String("error", serveErr.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("server shutdown failed", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
			shutdownErr = errors.Join(shutdownErr, fmt.Errorf("server shutdown failed: %w", err))
		}
	}

	app.cleanup()
	app.logger.Info("server shutdown completed")

	return errors.Join(serveErr, shutdownErr)
}
