// package server contains the router, middleware & handlers for the song catalog web service
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songs/internal/services"
	"github.com/desertthunder/songs/internal/shared"
)

// ShutdownTimeout bounds how long in-flight requests may run after shutdown starts.
const ShutdownTimeout = 10 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the catalog service.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the method-qualified patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// NewRouter builds the catalog API: request id, request logger, panic recovery and rate limiting
// around the songs and health handlers.
func NewRouter(catalog services.Catalog, cfg shared.ServerConfig, logger *log.Logger) *BasicRouter {
	r := NewBasicRouter()
	r.Use(RequestID, RequestLogger(logger), Recoverer, RateLimit(cfg.RateLimit, cfg.Burst))
	r.Handler(NewSongsHandler(catalog))
	r.Handler(NewHealthHandler(catalog))
	return r
}

// Server runs an [http.Server] until its context is cancelled.
type Server struct {
	http   *http.Server
	logger *log.Logger
}

// ServerOpts configures a [Server].
type ServerOpts struct {
	Config  shared.ServerConfig
	Handler http.Handler
	Logger  *log.Logger
}

// NewServer creates a [Server] with the configured address and timeouts.
func NewServer(opts ServerOpts) *Server {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Server{
		http: &http.Server{
			Addr:         opts.Config.Addr(),
			Handler:      opts.Handler,
			ReadTimeout:  opts.Config.ReadTimeoutDuration(),
			WriteTimeout: opts.Config.WriteTimeoutDuration(),
			IdleTimeout:  opts.Config.IdleTimeoutDuration(),
		},
		logger: opts.Logger,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errs <- s.http.Serve(ln)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
