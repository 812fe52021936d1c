package httptransport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nsdc/internal/crawler/runner"
	"nsdc/pkg/platform/httputil"
	"nsdc/pkg/platform/sentinel"
)

const readinessTimeout = 2 * time.Second

// Runner is what the ops endpoints need from the crawl scheduler.
type Runner interface {
	Status() runner.Status
	Trigger() bool
}

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Handler is the thin ops HTTP layer over the runner.
type Handler struct {
	runner Runner
	checks map[string]Check
	logger *slog.Logger
}

func NewHandler(r Runner, checks map[string]Check, logger *slog.Logger) *Handler {
	return &Handler{runner: r, checks: checks, logger: logger}
}

// NewRouter wires the ops endpoints: liveness, readiness, run status, a
// manual trigger and Prometheus metrics.
func NewRouter(h *Handler, metrics http.Handler) http.Handler {
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Get("/readyz", h.handleReady)
	r.Get("/status", h.handleStatus)
	r.Post("/crawl", h.handleTrigger)
	r.Method(http.MethodGet, "/metrics", metrics)
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady runs every dependency check; any failure makes the crawler
// unready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	var failed []string
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "Readiness check failed", slog.String("check", name), slog.String("error", err.Error()))
			results[name] = err.Error()
			failed = append(failed, name)
			continue
		}
		results[name] = "ok"
	}
	if len(failed) > 0 {
		httputil.WriteError(w, fmt.Errorf("%d dependency checks failed: %w", len(failed), sentinel.ErrUnavailable))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"status": "ready", "checks": results})
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.runner.Status())
}

func (h *Handler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if !h.runner.Trigger() {
		httputil.WriteError(w, fmt.Errorf("crawl not accepted (running, queued or not scheduled): %w", sentinel.ErrInvalidState))
		return
	}
	h.logger.InfoContext(r.Context(), "Crawl triggered", slog.String("request_id", middleware.GetReqID(r.Context())))
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
