// Package server exposes storyboard generation over a small JSON HTTP API.
//
// Routes:
//
//	POST /v1/storyboard  {"description": "..."} -> {"imageUrl","cameraAngle","mood"}
//	GET  /v1/healthz     liveness probe
//	GET  /metrics        Prometheus exposition
//
// Each request runs its own generation. There is no admission control or
// deduplication across concurrent requests.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/CodexForgeBR/storyboard-artist/internal/logging"
	"github.com/CodexForgeBR/storyboard-artist/internal/metrics"
	"github.com/CodexForgeBR/storyboard-artist/internal/storyboard"
)

// Route paths.
const (
	RouteStoryboard = "/v1/storyboard"
	RouteHealth     = "/v1/healthz"
	RouteMetrics    = "/metrics"
)

const (
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 10 * time.Second
)

// Generator produces a storyboard frame. *storyboard.Orchestrator satisfies it.
type Generator interface {
	Generate(ctx context.Context, description string) (*storyboard.Result, error)
}

// Server routes HTTP requests to a Generator.
type Server struct {
	gen     Generator
	metrics *metrics.Metrics
	router  chi.Router
}

type generateRequest struct {
	Description string `json:"description"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds a Server. metrics may be nil, in which case /metrics is not
// mounted and requests are not counted.
func New(gen Generator, m *metrics.Metrics) *Server {
	s := &Server{gen: gen, metrics: m}

	r := chi.NewRouter()
	r.Use(RequestID, middleware.RealIP, s.accessLog, middleware.Recoverer)

	r.Get(RouteHealth, s.health)
	r.Post(RouteStoryboard, s.generate)
	if m != nil {
		r.Method(http.MethodGet, RouteMetrics, m.Handler())
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, waiting up to shutdownTimeout for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	logging.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "description is required"})
		return
	}

	result, err := s.gen.Generate(r.Context(), description)
	if err != nil {
		logging.Error(fmt.Sprintf("[%s] %v", RequestIDFromContext(r.Context()), err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// accessLog logs each request at debug level and counts it.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logging.Debug(fmt.Sprintf("[%s] %s %s %d %s",
			RequestIDFromContext(r.Context()), r.Method, r.URL.Path, status,
			logging.FormatDelay(time.Since(start))))

		if s.metrics != nil {
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			s.metrics.HTTPRequest(route, status)
		}
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
