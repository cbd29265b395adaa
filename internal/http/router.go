// Package http assembles the service's route tree: liveness and metrics in
// the open, every stablecoin operation behind caller authentication.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sss/pkg/platform/middleware/caller"
	"sss/pkg/platform/middleware/requesttime"
)

// Registrar mounts one module's endpoints on the router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter builds the full route tree. The request clock and id are pinned
// before anything else so every check in a call observes one timestamp.
func NewRouter(logger *slog.Logger, validator caller.TokenValidator, modules ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(caller.Require(validator, logger))
		for _, m := range modules {
			m.Register(r)
		}
	})
	return r
}
