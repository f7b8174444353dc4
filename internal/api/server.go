package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/dcf-simulator/internal/config"
	"github.com/yourusername/dcf-simulator/internal/health"
	"github.com/yourusername/dcf-simulator/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP server for the valuation API
type Server struct {
	httpServer *http.Server
	checker    *health.Checker
	logger     *logrus.Logger
}

// NewServer wires the API, health and metrics routes from cfg.
func NewServer(cfg *config.Config, h *Handler, checker *health.Checker, logger *logrus.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      Routes(cfg, h, checker),
			ReadTimeout:  cfg.Server.ReadTimeout(),
			WriteTimeout: cfg.Server.WriteTimeout(),
			IdleTimeout:  60 * time.Second,
		},
		checker: checker,
		logger:  logger,
	}
}

// Routes builds the request multiplexer.
func Routes(cfg *config.Config, h *Handler, checker *health.Checker) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux, NewLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst))
	if checker != nil {
		checker.RegisterRoutes(mux)
	}
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, metrics.Handler())
	}
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("Valuation API starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if s.checker != nil {
		s.checker.SetReady(true)
	}

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	if s.checker != nil {
		s.checker.SetReady(false)
	}
	s.logger.Info("Valuation API shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
