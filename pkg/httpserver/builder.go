package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Option func(*Options)

type Options struct {
	port          int
	logger        *zap.Logger
	middleware    []Middleware
	enableLogging bool
	readTimeout   time.Duration
	writeTimeout  time.Duration
}

// Middleware wraps an http.Handler with extra behavior.
type Middleware func(http.Handler) http.Handler

func WithPort(port int) Option {
	return func(o *Options) {
		o.port = port
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

func WithMiddleware(mw ...Middleware) Option {
	return func(o *Options) {
		o.middleware = append(o.middleware, mw...)
	}
}

func WithLogging(enabled bool) Option {
	return func(o *Options) {
		o.enableLogging = enabled
	}
}

func WithTimeouts(read, write time.Duration) Option {
	return func(o *Options) {
		o.readTimeout = read
		o.writeTimeout = write
	}
}

type Server struct {
	httpServer *http.Server
	lis        net.Listener
	logger     *zap.Logger
}

// New creates a new HTTP server using the builder options.
func New(handler http.Handler, opts ...Option) (*Server, error) {
	options := &Options{
		port:         8080,
		logger:       zap.NewNop(),
		readTimeout:  15 * time.Second,
		writeTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(options)
	}

	// Port 0 binds an OS-assigned port.
	if options.port < 0 || options.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 0 and 65535", options.port)
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", options.port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", options.port, err)
	}

	logger := options.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	wrapped := handler
	// Outermost middleware runs first; logging wraps everything.
	for i := len(options.middleware) - 1; i >= 0; i-- {
		wrapped = options.middleware[i](wrapped)
	}
	if options.enableLogging {
		wrapped = LoggingMiddleware(logger)(wrapped)
	}

	return &Server{
		httpServer: &http.Server{
			Handler:      wrapped,
			ReadTimeout:  options.readTimeout,
			WriteTimeout: options.writeTimeout,
		},
		lis:    lis,
		logger: logger.Named("http-server"),
	}, nil
}

// Start runs the server in a goroutine and returns immediately.
func (s *Server) Start() {
	s.logger.Info("HTTP server starting", zap.String("addr", s.lis.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(s.lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("HTTP server stopping")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("graceful shutdown failed, forcing close", zap.Error(err))
		_ = s.httpServer.Close()
	}
}

// Addr reports the bound listen address, useful when port 0 was requested.
func (s *Server) Addr() string {
	return s.lis.Addr().String()
}
