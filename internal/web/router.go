package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"

	"github.com/casperlab/infradash/internal/metrics"
	"github.com/casperlab/infradash/internal/middleware"
)

// Routes assembles the service router: dashboard page, JSON API, health,
// and Prometheus endpoints. Health and metrics are excluded from request
// logging; dashboard and API responses are gzip-compressed.
func (h *Handler) Routes(logger *slog.Logger) http.Handler {
	skip := func(r *http.Request) bool {
		return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger, skip))
	r.Use(metrics.Middleware)

	r.Get("/healthz", h.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return gzhttp.GzipHandler(next)
		})

		r.Get("/", h.Dashboard)
		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/summary", h.GetSummary)
			r.Get("/machines", h.ListMachines)
			r.Get("/machines/top", h.TopMachines)
			r.Get("/machines/gpu", h.GPUMachines)
		})
	})

	return r
}
