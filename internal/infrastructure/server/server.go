package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
)

const readHeaderTimeout = 10 * time.Second

// Server is an http.Server bound to a listener before it serves, so bind
// failures surface to the caller instead of a background goroutine.
type Server struct {
	name     string
	listener net.Listener
	srv      *http.Server
	logger   *logging.Logger
}

// Listen binds addr and prepares handler to be served on it. Port 0 picks an
// ephemeral port; Addr reports the real one.
func Listen(name, addr string, handler http.Handler, logger *logging.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	logger = logging.OrNop(logger)
	return &Server{
		name:     name,
		listener: ln,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ErrorLog:          zap.NewStdLog(logger.Logger),
		},
		logger: logger,
	}, nil
}

// Name returns the transport name
func (s *Server) Name() string { return s.name }

// Addr returns the bound address
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Serve blocks until the server is shut down. A graceful shutdown returns nil.
func (s *Server) Serve() error {
	s.logger.Info("transport listening", zap.String("transport", s.name), zap.String("addr", s.Addr()))
	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("%s transport: %w", s.name, err)
}

// Shutdown stops accepting connections and waits for in-flight requests, or
// closes them forcibly once ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.Warn("forcing transport close", zap.String("transport", s.name))
		return s.srv.Close()
	}
	return err
}

// Close releases the listener of a server that never served.
func (s *Server) Close() error {
	err := s.listener.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
