package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	contacthandler "contactbook/internal/contact/handler"
	"contactbook/internal/platform/metrics"
	"contactbook/pkg/platform/httputil"
	"contactbook/pkg/platform/middleware/logging"
	"contactbook/pkg/platform/middleware/metadata"
	"contactbook/pkg/platform/middleware/requestid"
	"contactbook/pkg/platform/middleware/requesttime"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps are the collaborators the router mounts.
type Deps struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Contacts *contacthandler.Handler
	// Health is optional; nil reports healthy.
	Health HealthChecker
	// Today pins the request clock; zero means wall-clock time.
	Today time.Time
}

// NewRouter wires the public endpoints behind the shared middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(logging.Recovery(deps.Logger))
	r.Use(logging.AccessLog(deps.Logger))
	r.Use(metadata.ClientMetadata)
	if deps.Today.IsZero() {
		r.Use(requesttime.Middleware)
	} else {
		r.Use(requesttime.Fixed(deps.Today))
	}

	r.Get("/health", handleHealth(deps.Health))
	if deps.Registry != nil {
		r.Handle("/metrics", metrics.Handler(deps.Registry))
	}
	deps.Contacts.Register(r)
	return r
}

func handleHealth(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
