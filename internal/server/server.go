// Package server exposes the resolver over HTTP: every request is resolved
// against the route table and the winning handler reference is returned as
// JSON, alongside a Prometheus metrics endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/routeforge/routeforge/internal/config"
	"github.com/routeforge/routeforge/internal/observability"
	"github.com/routeforge/routeforge/internal/routing"
	"github.com/routeforge/routeforge/internal/util"
)

// Server is the resolution HTTP front end.
type Server struct {
	cfg      *config.Config
	resolver *routing.Resolver
	logger   observability.Logger
	httpSrv  *http.Server
}

// New creates a server for the given configuration and resolver.
func New(cfg *config.Config, resolver *routing.Resolver, logger observability.Logger) *Server {
	if logger == nil {
		logger = observability.NopLogger()
	}

	s := &Server{
		cfg:      cfg,
		resolver: resolver,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.MetricsPath, promhttp.Handler())
	mux.HandleFunc("/", s.handleResolve)

	s.httpSrv = &http.Server{
		Addr:         cfg.Listen,
		Handler:      s.withRequestID(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Start runs the server until it fails or is shut down. It blocks.
func (s *Server) Start() error {
	s.logger.Info("server listening",
		observability.String("addr", s.cfg.Listen),
		observability.String("metrics_path", s.cfg.MetricsPath),
	)

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// withRequestID attaches a request ID to the context and response, reusing
// the client's X-Request-ID when present.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := observability.ContextWithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveResponse is the body returned for a matched request.
type resolveResponse struct {
	Handler   any                 `json:"handler"`
	Named     map[string]string   `json:"variables,omitempty"`
	Anonymous map[string][]string `json:"wildcards,omitempty"`
}

// errorResponse is the body returned for an unmatched request.
type errorResponse struct {
	Error  string `json:"error"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

// handleResolve resolves the request path against the route table.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := s.logger.WithContext(r.Context())

	match, err := s.resolver.Resolve(r.Method, r.URL.Path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, util.ErrNotFound) {
			status = http.StatusNotFound
		}

		logger.Info("request unresolved",
			observability.String("method", r.Method),
			observability.String("path", r.URL.Path),
			observability.Int("status", status),
			observability.Duration("duration", time.Since(start)),
		)

		writeJSON(w, status, errorResponse{
			Error:  "route not found",
			Method: r.Method,
			Path:   r.URL.Path,
		})
		return
	}

	logger.Info("request resolved",
		observability.String("method", r.Method),
		observability.String("path", r.URL.Path),
		observability.String("pattern", match.Route.Path),
		observability.Duration("duration", time.Since(start)),
	)

	writeJSON(w, http.StatusOK, resolveResponse{
		Handler:   match.Route.Handler,
		Named:     match.Variables.Named,
		Anonymous: match.Variables.Anonymous,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
