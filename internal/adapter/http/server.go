// Package http exposes the dashboard API: health, readiness, and metrics
// endpoints in front of the filter-and-aggregate engine, plus the CSV
// export of the current filtered view.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fawnlabs/weather-dashboard/internal/config"
	"github.com/fawnlabs/weather-dashboard/internal/dataset"
	"github.com/fawnlabs/weather-dashboard/internal/observability"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard API over HTTP.
type Server struct {
	httpServer *http.Server
	store      *dataset.Store
	cfg        *config.Config
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires the chi router: /healthz, /readyz, /metrics, and the
// /api/v1 dashboard routes.
func NewServer(cfg *config.Config, store *dataset.Store, ready ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		store:   store,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", handleReady(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/filters", s.handleFilters)
		r.Get("/summary", s.handleSummary)
		r.Get("/breakdown/stations", s.handleStationBreakdown)
		r.Get("/breakdown/seasons", s.handleSeasonBreakdown)
		r.Get("/rain", s.handleRain)
		r.Get("/wind", s.handleWind)
		r.Get("/histogram", s.handleHistogram)
		r.Get("/timeseries", s.handleTimeSeries)
		r.Get("/scatter", s.handleScatter)
		r.Get("/observations", s.handleObservations)
		r.Get("/export", s.handleExport)
	})

	s.httpServer = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		render.JSON(w, r, map[string]string{"status": "ready"})
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

type errResponse struct {
	Error string `json:"error"`
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errResponse{Error: msg})
}

func notFound(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, errResponse{Error: msg})
}

func unavailable(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusServiceUnavailable)
	render.JSON(w, r, errResponse{Error: msg})
}
