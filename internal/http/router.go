// Package http assembles the public surface of the service: the middleware
// chain, the per-feature route groups and the operational endpoints.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"nirvachan/internal/http/shared"
	"nirvachan/internal/platform/metrics"
	"nirvachan/internal/platform/middleware"
)

// Handler is implemented by every feature handler; each mounts its own routes
// and guards them with the middleware it needs.
type Handler interface {
	Register(r chi.Router)
}

// Deps collects everything the router needs.
type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	DB      *sql.DB
	Redis   *redis.Client

	Auth      Handler
	Validator middleware.TokenValidator

	Voters     Handler
	Elections  Handler
	Candidates Handler
	Votes      Handler
	Tallies    Handler
	Parties    Handler
}

// NewRouter builds the chi router. Auth manages its own public and private
// groups; every other feature sits behind the bearer-token gate.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.ClientMeta)
	r.Use(middleware.Latency(d.Metrics))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", healthHandler(d.DB, d.Redis))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	d.Auth.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Validator, d.Logger))
		d.Voters.Register(r)
		d.Elections.Register(r)
		d.Candidates.Register(r)
		d.Votes.Register(r)
		d.Tallies.Register(r)
		d.Parties.Register(r)
	})

	return r
}

// healthHandler reports readiness. Postgres is load-bearing, so its failure
// turns the probe red; Redis is optional and only reported.
func healthHandler(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := map[string]string{}

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				checks["postgres"] = "down"
				status = http.StatusServiceUnavailable
			} else {
				checks["postgres"] = "ok"
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = "down"
			} else {
				checks["redis"] = "ok"
			}
		}

		body := map[string]any{"status": "ok", "checks": checks}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		shared.WriteJSON(w, status, body)
	}
}
