// Package api exposes the article engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/middleware"
)

// Articles is the write and lookup side of the engine.
type Articles interface {
	Add(ctx context.Context, title, content string, tags []string) (article.Article, error)
	Get(id int64) (article.Article, error)
	Generation() uint64
}

type SearchExecutor interface {
	Execute(ctx context.Context, plan *parser.QueryPlan, sortBy string) (*executor.SearchResult, error)
}

type Handler struct {
	articles Articles
	executor SearchExecutor
	cache    *cache.QueryCache
	tracker  analytics.Tracker
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(*Handler)

// WithCache serves repeated searches from a query cache.
func WithCache(c *cache.QueryCache) Option {
	return func(h *Handler) { h.cache = c }
}

// WithTracker reports every search to t.
func WithTracker(t analytics.Tracker) Option {
	return func(h *Handler) { h.tracker = t }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func NewHandler(articles Articles, exec SearchExecutor, opts ...Option) *Handler {
	h := &Handler{
		articles: articles,
		executor: exec,
		logger:   slog.Default().With("component", "api"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCreateArticle(w, r)
	if !ok {
		logger.FromContext(r.Context()).Debug("unreadable article body")
	}

	a, err := h.articles.Add(r.Context(), req.Title, req.Content, req.Tags)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("article created",
		"id", a.ID,
		"tags", len(a.Tags),
	)
	h.writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeAppError(w, r, apperrors.NotFound("Article not found"))
		return
	}
	a, err := h.articles.Get(id)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeAppError(w, r, apperrors.Validation("Search query is required"))
		return
	}
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = ranker.SortRelevance
	}

	plan := parser.Parse(query)

	var result *executor.SearchResult
	var err error
	cacheHit := false

	if h.cache != nil && !plan.Empty() {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, plan, sortBy, h.articles.Generation(), func(ctx context.Context) (*executor.SearchResult, error) {
			return h.executor.Execute(ctx, plan, sortBy)
		})
	} else {
		result, err = h.executor.Execute(ctx, plan, sortBy)
	}

	if err != nil {
		if h.metrics != nil {
			h.metrics.SearchQueriesTotal.WithLabelValues(metrics.ResultError).Inc()
		}
		log.Error("search execution failed", "query", query, "error", err)
		h.writeAppError(w, r, err)
		return
	}

	elapsed := time.Since(start)
	log.Info("search completed",
		"query", query,
		"sort", sortBy,
		"results", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", elapsed.Milliseconds(),
	)
	if h.metrics != nil {
		h.metrics.ObserveSearch(elapsed.Seconds(), len(result.Results), cacheHit)
	}
	if h.tracker != nil {
		eventType := analytics.EventSearch
		if len(result.Results) == 0 {
			eventType = analytics.EventZeroResult
		}
		h.tracker.Track(analytics.SearchEvent{
			Type:      eventType,
			Query:     query,
			Terms:     plan.Terms,
			SortBy:    sortBy,
			Results:   len(result.Results),
			LatencyMs: elapsed.Milliseconds(),
			CacheHit:  cacheHit,
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, result.Results)
}

// Endpoint describes one route on the index page.
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var endpoints = []Endpoint{
	{Method: http.MethodPost, Path: "/articles", Description: "Add a new article with title, content and optional tags"},
	{Method: http.MethodGet, Path: "/articles/search?q=<query>&sort=<relevance|date>", Description: "Search articles by keywords and tags"},
	{Method: http.MethodGet, Path: "/articles/:id", Description: "Get an article by id"},
	{Method: http.MethodGet, Path: "/health/live", Description: "Liveness probe"},
	{Method: http.MethodGet, Path: "/health/ready", Description: "Readiness probe"},
	{Method: http.MethodGet, Path: "/stats", Description: "Aggregated search statistics"},
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Article search API",
		"endpoints": endpoints,
	})
}

// NotFound answers unmatched routes, including known paths with the wrong
// method.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusNotFound, map[string]string{
		"error":   "Endpoint not found",
		"message": "Cannot " + r.Method + " " + r.URL.Path,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// writeAppError maps err to its status. Client errors carry only their
// message; server errors use the 500 envelope.
func (h *Handler) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		h.writeJSON(w, status, map[string]string{
			"error":   "Something went wrong!",
			"message": err.Error(),
		})
		return
	}
	h.writeJSON(w, status, map[string]string{"error": apperrors.PublicMessage(err)})
}
