package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/middleware"
)

// RouterConfig collects everything mounted on the API router. Nil optional
// fields leave their routes out.
type RouterConfig struct {
	Handler   *Handler
	Health    *health.Checker
	Analytics *analytics.Handler
	Metrics   *metrics.Metrics

	// ServeMetrics mounts /metrics on this router.
	ServeMetrics   bool
	RequestTimeout time.Duration
	CORSOrigins    []string
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	h := cfg.Handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.Recover)
	r.Use(middleware.CORS(cfg.CORSOrigins, 600))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	r.Get("/", h.Index)
	r.Route("/articles", func(r chi.Router) {
		r.Post("/", h.CreateArticle)
		r.Get("/search", h.Search)
		r.Get("/{id}", h.GetArticle)
	})

	if cfg.Health != nil {
		r.Get("/health/live", cfg.Health.LiveHandler())
		r.Get("/health/ready", cfg.Health.ReadyHandler())
	}
	if cfg.Analytics != nil {
		r.Get("/stats", cfg.Analytics.Stats)
	}
	if cfg.Metrics != nil && cfg.ServeMetrics {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	return r
}
