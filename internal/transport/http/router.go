// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// services, and encode; business rules stay out of this package.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/platform/middleware"
)

// Registrar is implemented by every handler group in this package.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter assembles the middleware chain and mounts every handler group.
// Health and metrics stay outside the authenticated chain.
func NewRouter(logger *slog.Logger, handlers ...Registrar) http.Handler {
	root := chi.NewRouter()

	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Method(http.MethodGet, "/metrics", promhttp.Handler())

	api := chi.NewRouter()
	api.Use(middleware.RequestID)
	api.Use(middleware.RequestTime)
	api.Use(middleware.ActorIdentity(logger))
	for _, h := range handlers {
		h.Register(api)
	}
	root.Mount("/", api)

	return root
}
