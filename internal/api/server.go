// Package api exposes the HTTP surface the frontend talks to: SSL mode
// discovery per database type, profile management, and connection tests.
package api

import (
	"context"
	"net/http"

	"github.com/oriys/quasar/internal/connect"
	"github.com/oriys/quasar/internal/logging"
	"github.com/oriys/quasar/internal/metrics"
	"github.com/oriys/quasar/internal/observability"
	"github.com/oriys/quasar/internal/profile"
)

// ServerConfig contains dependencies for the HTTP server.
type ServerConfig struct {
	Profiles    *profile.Store
	Connections *connect.Manager
}

// StartHTTPServer creates and starts the HTTP server.
func StartHTTPServer(addr string, cfg ServerConfig) *http.Server {
	mux := http.NewServeMux()

	h := &Handler{
		Profiles:    cfg.Profiles,
		Connections: cfg.Connections,
	}
	h.RegisterRoutes(mux)

	mux.Handle("GET /metrics", metrics.PrometheusHandler())

	var handler http.Handler = mux
	handler = observability.HTTPMiddleware(handler)

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Op().Error("HTTP server error", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully stops the server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server) error {
	return server.Shutdown(ctx)
}
