// Package server exposes nbase evaluations over HTTP:
//
//	POST /v1/eval      evaluate a models.EvalRequest
//	GET  /v1/convert   ?value=&from=&to=&charset=&to_charset=
//	GET  /v1/ops       list the operations
//	GET  /health       liveness and registry size
//	GET  /metrics      Prometheus metrics
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/nbase/internal/config"
	apperrors "github.com/agbru/nbase/internal/errors"
	"github.com/agbru/nbase/internal/logging"
	"github.com/agbru/nbase/internal/service"
)

// Server is the HTTP front end of a service.Service. It wraps the standard
// http.Server and adds middleware and graceful shutdown.
type Server struct {
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	registry       *prometheus.Registry
	metrics        *Metrics
	timeouts       Timeouts
	version        string
}

// NewServer creates a Server for svc.
//
// Parameters:
//   - svc: The evaluation service.
//   - cfg: The application configuration (port, limits).
//   - opts: Optional functional options for customizing the server.
//
// Returns:
//   - *Server: A pointer to the initialized Server.
func NewServer(svc service.Service, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		service:        svc,
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		securityConfig: DefaultSecurityConfig(),
		timeouts:       DefaultServerTimeouts(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = NewMetrics(s.registry, svc.Factory().Registry())
	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(DefaultRateLimiterConfig())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/eval", s.wrapWithMiddleware("/v1/eval", s.handleEval))
	mux.HandleFunc("GET /v1/convert", s.wrapWithMiddleware("/v1/convert", s.handleConvert))
	mux.HandleFunc("GET /v1/ops", s.wrapWithMiddleware("/v1/ops", s.handleOps))
	mux.HandleFunc("GET /health", s.wrapWithMiddleware("/health", s.handleHealth))
	mux.HandleFunc("GET /metrics", s.wrapWithMiddleware("/metrics", s.metrics.ServeHTTP))
	mux.HandleFunc("/", s.wrapWithMiddleware("other", s.handleNotFound))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}
	return s
}

// Handler returns the root handler, with every middleware applied.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// wrapWithMiddleware applies the full middleware chain to a handler:
// Security -> RateLimit -> Logging -> Metrics -> Handler.
func (s *Server) wrapWithMiddleware(route string, handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(route, handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	wrapped = SecurityMiddleware(s.securityConfig, wrapped)
	return wrapped
}

// Start listens on the configured port until ctx is done, then shuts down
// gracefully.
//
// Returns:
//   - error: An error if the server fails to start or to shut down.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return apperrors.NewServerError("server failed to start", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", ln.Addr().String()),
			logging.Int("max_base", s.service.Factory().MaxBase()),
		)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, initiating graceful shutdown")
	case err, ok := <-errCh:
		if ok {
			return apperrors.NewServerError("server failed", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}
