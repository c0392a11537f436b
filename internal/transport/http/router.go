// Package httptransport assembles the public HTTP surface: shared
// middleware, health and metrics endpoints, and the domain handlers.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Degagemain/degage-sub000/internal/messages"
	"github.com/Degagemain/degage-sub000/internal/platform/metrics"
	"github.com/Degagemain/degage-sub000/pkg/platform/httputil"
	"github.com/Degagemain/degage-sub000/pkg/platform/middleware/requestid"
	"github.com/Degagemain/degage-sub000/pkg/platform/middleware/requesttime"
)

// Registrar mounts a group of routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Config carries everything NewRouter wires.
type Config struct {
	Logger   *slog.Logger
	Messages *messages.Bundle
	Metrics  *metrics.Metrics
	// Checks are run by GET /health, keyed by dependency name.
	Checks   map[string]HealthCheck
	Handlers []Registrar
}

func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(cfg.Metrics.Middleware)
	if cfg.Messages != nil {
		r.Use(messages.Middleware(cfg.Messages))
	}

	r.Get("/health", healthHandler(cfg.Checks, cfg.Logger))
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range cfg.Handlers {
		h.Register(r)
	}
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				if logger != nil {
					logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				}
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
