// Package ops provides the operational HTTP surface of the dispatcher:
// health, Prometheus metrics, and a token-guarded manual run trigger. The
// advisory pipeline itself has no public API; this server exists for the
// scheduler's operators.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kisanmitra/internal/config"
	"kisanmitra/internal/dispatch"
	"kisanmitra/internal/types"
)

// RunTrigger starts a full dispatch run. Implemented by dispatch.Runner.
type RunTrigger interface {
	Run(ctx context.Context) (dispatch.RunResult, error)
}

// Server is the ops HTTP server.
type Server struct {
	cfg      config.ServerConfig
	runner   RunTrigger
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	router   *chi.Mux
}

// NewServer builds the router and returns the server.
func NewServer(cfg config.ServerConfig, runner RunTrigger, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		gatherer: gatherer,
		logger:   logger,
		router:   chi.NewRouter(),
	}
	s.mountRoutes()
	return s
}

// Handler returns the http.Handler for ListenAndServe.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) mountRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(10 * time.Minute))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.router.Post("/run", s.handleRun)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRun triggers a dispatch run synchronously and reports its summary.
// The endpoint is disabled entirely when no run token is configured.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.cfg.RunToken == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "manual runs disabled"})
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+s.cfg.RunToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid run token"})
		return
	}

	s.logger.InfoContext(r.Context(), "manual dispatch run triggered")

	result, err := s.runner.Run(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			status = appErr.Code.HTTPStatus()
		}
		s.logger.ErrorContext(r.Context(), "manual dispatch run failed", "error", err)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":     result.RunID,
		"sent":       result.Sent,
		"skipped":    result.Skipped,
		"failed":     result.Failed,
		"elapsed":    result.Elapsed.String(),
		"incomplete": result.Incomplete,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
