package handlers

import (
	"net/http"
	"subsidyopt/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig selects the optional parts of the middleware stack.
type RouterConfig struct {
	CORSOrigins []string
	Gzip        bool
	Limiter     *RateLimiter
}

// NewRouter wires the API routes.
// Stack: RequestID, RealIP, request log, Recovery, security headers, CORS, gzip, rate limit.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recovery)
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Admin-Key", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
		MaxAge:         300,
	}))
	if cfg.Gzip {
		r.Use(middleware.Gzip)
	}

	r.NotFound(NotFoundHandler)
	r.MethodNotAllowed(MethodNotAllowedHandler)

	r.Get("/api/health", h.Health)
	r.Handle("/metrics", h.Metrics.Handler())

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}
		r.Post("/api/analyze", h.Analyze)
		r.Get("/api/subsidies", h.Subsidies)
		r.Get("/api/subsidies/{id}", h.Subsidy)
		r.Get("/api/version", h.Version)
		r.Get("/api/options", h.Options)
		r.Post("/api/encode-profile", h.EncodeProfile)
		r.Get("/api/decode-profile", h.DecodeProfile)
		r.Post("/api/export/pdf", h.ExportPDF)

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Post("/catalog", h.UpdateCatalog)
			r.Post("/catalog/reload", h.ReloadCatalog)
		})
	})

	return r
}
