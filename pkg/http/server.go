package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"RiskKit/pkg/http/middleware"
	applogger "RiskKit/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler registers its routes on the Echo instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

// ServerOption configures Server.
type ServerOption func(*ServerConfig)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	SlowThreshold   time.Duration
	MetricsPath     string
	CORSOrigins     []string
	Logger          *applogger.Logger
	Middleware      []echo.MiddlewareFunc
	OnShutdown      []func()
}

// Server wraps Echo HTTP server.
type Server struct {
	echo   *echo.Echo
	config *ServerConfig
	log    *applogger.Logger
}

// NewServer creates a new HTTP server with Echo.
func NewServer(handler Handler, opts ...ServerOption) *Server {
	cfg := &ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		SlowThreshold:   500 * time.Millisecond,
		MetricsPath:     "/metrics",
		CORSOrigins:     []string{"*"},
	}

	for _, opt := range opts {
		opt(cfg)
	}
	l := cfg.Logger
	if l == nil {
		l = applogger.Nop()
	}
	l = l.With(applogger.String("component", "http_server"))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout
	for _, fn := range cfg.OnShutdown {
		e.Server.RegisterOnShutdown(fn)
	}

	// Middleware
	e.Use(middleware.Recover(l))
	e.Use(middleware.Metrics(l, cfg.SlowThreshold))
	e.Use(middleware.RequestLogging(l))

	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORS(middleware.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
			MaxAge:       600,
		}))
	}
	for _, m := range cfg.Middleware {
		e.Use(m)
	}

	// Register routes
	if handler != nil {
		handler.RegisterRoutes(e)
	}

	// Expose Prometheus metrics endpoint for scraping
	e.GET(cfg.MetricsPath, echo.WrapHandler(promhttp.Handler()))

	return &Server{
		echo:   e,
		config: cfg,
		log:    l,
	}
}

// Start starts the HTTP server in the background. Listen errors are sent on
// the returned channel, which is closed when the server stops.
func (s *Server) Start() <-chan error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		s.log.Info("http server listening", applogger.String("addr", addr))
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server error", applogger.Error(err))
			errc <- err
		}
	}()

	return errc
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ShutdownTimeout is the configured grace period for Stop.
func (s *Server) ShutdownTimeout() time.Duration {
	return s.config.ShutdownTimeout
}

// WithHost sets server host.
func WithHost(host string) ServerOption {
	return func(c *ServerConfig) {
		c.Host = host
	}
}

// WithPort sets server port.
func WithPort(port int) ServerOption {
	return func(c *ServerConfig) {
		c.Port = port
	}
}

// WithTimeouts sets read/write timeouts.
func WithTimeouts(read, write, shutdown time.Duration) ServerOption {
	return func(c *ServerConfig) {
		c.ReadTimeout = read
		c.WriteTimeout = write
		c.ShutdownTimeout = shutdown
	}
}

// WithCORSOrigins sets the allowed origins. No origins disables CORS.
func WithCORSOrigins(origins ...string) ServerOption {
	return func(c *ServerConfig) {
		c.CORSOrigins = origins
	}
}

// WithLogger sets the server logger.
func WithLogger(l *applogger.Logger) ServerOption {
	return func(c *ServerConfig) {
		c.Logger = l
	}
}

// WithSlowThreshold sets the latency above which requests are logged as slow.
func WithSlowThreshold(d time.Duration) ServerOption {
	return func(c *ServerConfig) {
		c.SlowThreshold = d
	}
}

// WithMetricsPath sets the Prometheus scrape path.
func WithMetricsPath(path string) ServerOption {
	return func(c *ServerConfig) {
		if path != "" {
			c.MetricsPath = path
		}
	}
}

// WithMiddleware appends middleware that runs after the built-in chain.
func WithMiddleware(m ...echo.MiddlewareFunc) ServerOption {
	return func(c *ServerConfig) {
		c.Middleware = append(c.Middleware, m...)
	}
}

// WithOnShutdown registers funcs run when Stop begins. Use it to end
// hijacked connections such as websockets, which Shutdown does not wait for.
func WithOnShutdown(fns ...func()) ServerOption {
	return func(c *ServerConfig) {
		c.OnShutdown = append(c.OnShutdown, fns...)
	}
}
