// Package api exposes the lights commands over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/clambin/go-common/http/metrics"
	"github.com/clambin/go-common/http/middleware"
	"github.com/clambin/lights/internal/catalog"
	"github.com/clambin/lights/internal/commands"
	"github.com/clambin/lights/internal/configuration"
	"github.com/clambin/lights/internal/presets"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// InvokerHeader identifies the user on whose behalf a preset is run.
const InvokerHeader = "X-Invoker"

// Executor runs the commands. commands.Executor implements this interface.
type Executor interface {
	RunPreset(ctx context.Context, invoker string, name string) commands.Response
	Reload(ctx context.Context) commands.Response
	Presets() []commands.PresetInfo
	RunState() presets.RunState
}

// Config holds the settings of the HTTP API.
type Config struct {
	// RunLimit is the number of manual preset runs allowed per IP address per RunWindow.
	RunLimit       int
	RunWindow      time.Duration
	Health         http.Handler
	Metrics        http.Handler
	// RequestMetrics, if set, records every request served by the API.
	RequestMetrics metrics.RequestMetrics
}

// NewRequestMetrics creates the metrics for requests served by the API. The caller must register them.
func NewRequestMetrics(namespace string) metrics.RequestMetrics {
	return metrics.NewRequestMetrics(metrics.Options{
		Namespace:   namespace,
		Subsystem:   "api",
		LabelValues: routeLabels,
	})
}

// routeLabels uses the matched route rather than the request path, so that preset names don't create new series.
func routeLabels(req *http.Request, statusCode int) (string, string, string) {
	path := "unmatched"
	if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePattern() != "" {
		path = rctx.RoutePattern()
	}
	return req.Method, path, strconv.Itoa(statusCode)
}

// New returns the HTTP API's router.
func New(e Executor, cfg Config, logger *slog.Logger) http.Handler {
	s := server{executor: e, logger: logger}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger, slog.LevelDebug, middleware.DefaultRequestLogFormatter))
	if cfg.RequestMetrics != nil {
		r.Use(middleware.WithRequestMetrics(cfg.RequestMetrics))
	}
	if cfg.Health != nil {
		r.Method(http.MethodGet, "/health", cfg.Health)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	r.Get("/status", s.status)
	r.Get("/presets", s.presets)
	r.With(rateLimit(cfg.RunLimit, cfg.RunWindow)).Post("/presets/{name}/run", s.runPreset)
	r.Post("/reload", s.reload)
	return r
}

func rateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			writeJSON(w, http.StatusTooManyRequests, commands.Response{Message: "too many requests. please try again later"})
		}),
	)
}

type server struct {
	executor Executor
	logger   *slog.Logger
}

func (s server) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.executor.RunState())
}

func (s server) presets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.executor.Presets())
}

func (s server) runPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	invoker := r.Header.Get(InvokerHeader)
	resp := s.executor.RunPreset(r.Context(), invoker, name)
	s.logger.Debug("preset run requested", "preset", name, "invoker", invoker, "ok", resp.OK)
	writeJSON(w, statusCode(resp), resp)
}

func (s server) reload(w http.ResponseWriter, r *http.Request) {
	resp := s.executor.Reload(r.Context())
	writeJSON(w, statusCode(resp), resp)
}

func statusCode(resp commands.Response) int {
	switch {
	case resp.OK:
		return http.StatusOK
	case errors.Is(resp.Err, commands.ErrInvalidCommand):
		return http.StatusBadRequest
	case errors.Is(resp.Err, presets.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(resp.Err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(resp.Err, configuration.ErrConfig):
		return http.StatusUnprocessableEntity
	case errors.Is(resp.Err, presets.ErrTargetNotFound), errors.Is(resp.Err, presets.ErrApply):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
