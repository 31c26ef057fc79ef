// Package server exposes the planner over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/rpgo/retirement-planner/internal/config"
	"github.com/rpgo/retirement-planner/internal/service"
)

// Server is the HTTP API server
type Server struct {
	svc        *service.PlannerService
	logger     *slog.Logger
	cfg        config.ServerSettings
	limiter    *RateLimiter
	httpServer *http.Server
}

// New creates a server. A zero RateLimitPerMinute disables rate limiting.
func New(svc *service.PlannerService, cfg config.ServerSettings, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{svc: svc, logger: logger, cfg: cfg}
	if cfg.RateLimitPerMinute > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	for _, prefix := range []string{"/user", "/user/profile"} {
		mux.HandleFunc("POST "+prefix, s.handleCreateUser)
		mux.HandleFunc("GET "+prefix, s.handleGetUser)
		mux.HandleFunc("PUT "+prefix, s.handleUpdateUser)
	}

	mux.HandleFunc("POST /user/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /user/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /user/savings", s.handleCreateSaving)
	mux.HandleFunc("GET /user/savings", s.handleListSavings)
	mux.HandleFunc("GET /user/assumptions", s.handleGetAssumptions)
	mux.HandleFunc("PUT /user/assumptions", s.handlePutAssumptions)
	mux.HandleFunc("POST /user/assumptions", s.handlePutAssumptions)
	mux.HandleFunc("GET /user/projections", s.handleProjections)
	mux.HandleFunc("GET /user/projections/report", s.handleProjectionReport)

	var handler http.Handler = mux
	if s.limiter != nil {
		handler = RateLimitMiddleware(s.limiter, handler)
	}
	handler = LoggingMiddleware(s.logger, handler)
	return RequestIDMiddleware(handler)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	read, write, idle, shutdown := s.cfg.Timeouts()
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  read,
		WriteTimeout: write,
		IdleTimeout:  idle,
	}
	if s.limiter != nil {
		defer s.limiter.Stop()
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdown)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("server exited")
	return nil
}
