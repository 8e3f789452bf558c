// Package server exposes the scheduling assistant over HTTP. Each request is
// one conversational turn; the caller's role arrives in the X-User-Role header.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Backland-Labs/rosterdesk/internal/logger"
)

const (
	// defaultShutdownTimeout bounds graceful shutdown when none is configured
	defaultShutdownTimeout = 10 * time.Second

	// maxBodyBytes caps POST /ask bodies
	maxBodyBytes = 64 << 10

	// roleHeader carries the authenticated caller's role
	roleHeader = "X-User-Role"
)

// Common errors returned by the server
var (
	// ErrServerRunning is returned when attempting to start an already running server
	ErrServerRunning = errors.New("server is already running")
)

// Config holds listener settings
type Config struct {
	// Port to listen on; 0 picks a free port on localhost
	Port            int
	ShutdownTimeout time.Duration
}

// Server serves the assistant API
type Server struct {
	port            int
	shutdownTimeout time.Duration
	httpServer      *http.Server
	listener        net.Listener
	mu              sync.Mutex
	running         bool

	assistant Assistant
	catalog   ToolCatalog
}

// NewServer creates a server; use Start to begin listening
func NewServer(cfg Config, assistant Assistant, catalog ToolCatalog) *Server {
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	logger.WithFields(map[string]interface{}{
		"port":             cfg.Port,
		"shutdown_timeout": timeout.String(),
	}).Debug("Creating new server")

	return &Server{
		port:            cfg.Port,
		shutdownTimeout: timeout,
		assistant:       assistant,
		catalog:         catalog,
	}
}

// Handler returns the routed and logged HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	middleware := logger.HTTPMiddleware(logger.GetLogger())

	mux.Handle("/health", middleware(http.HandlerFunc(s.healthHandler)))
	mux.Handle("/ask", middleware(http.HandlerFunc(s.askHandler)))
	mux.Handle("/threads/{id}", middleware(http.HandlerFunc(s.endThreadHandler)))
	mux.Handle("/tools", middleware(http.HandlerFunc(s.toolsHandler)))

	return mux
}

// Start begins listening for HTTP requests on the configured port.
// The server runs until ctx is canceled and then shuts down gracefully.
// Returns http.ErrServerClosed on graceful shutdown, or any other error if startup fails.
func (s *Server) Start(ctx context.Context) error {
	logger.WithField("port", s.port).Info("Starting HTTP server")

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logger.Warn("Attempted to start already running server")
		return ErrServerRunning
	}
	s.running = true
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		s.setStopped()
		logger.Info("Server start canceled due to context cancellation")
		return ctx.Err()
	default:
	}

	addr := fmt.Sprintf("0.0.0.0:%d", s.port)
	if s.port == 0 {
		addr = "localhost:0"
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.setStopped()
		logger.WithFields(map[string]interface{}{
			"error":   err.Error(),
			"address": addr,
		}).Error("Failed to create listener")
		return fmt.Errorf("failed to listen: %w", err)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.listener = listener
	s.httpServer = httpServer
	s.mu.Unlock()

	logger.WithField("address", listener.Addr().String()).Info("Server listening")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		logger.Info("Server shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.WithField("error", err.Error()).Error("Error during server shutdown")
		}
	}()

	err = httpServer.Serve(listener)
	s.setStopped()

	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shut down gracefully")
		return err
	}
	logger.WithField("error", err.Error()).Error("Server error")
	return err
}

func (s *Server) setStopped() {
	s.mu.Lock()
	s.running = false
	s.listener = nil
	s.mu.Unlock()
}

// Address returns the actual address the server is listening on.
// Returns empty string if the server is not running.
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
