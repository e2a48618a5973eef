package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/tphakala/inat-gallery/internal/errors"
	"github.com/tphakala/inat-gallery/internal/gallery"
	"github.com/tphakala/inat-gallery/internal/logger"
	"github.com/tphakala/inat-gallery/internal/observability"
	"github.com/tphakala/inat-gallery/internal/observability/metrics"
	"github.com/tphakala/inat-gallery/internal/render"
)

// Fetcher resolves a species name into a gallery. *gallery.Service
// implements it.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (*gallery.Result, error)
}

// Server is the HTTP host for galleries.
type Server struct {
	echo     *echo.Echo
	config   *Config
	fetcher  Fetcher
	linker   gallery.Linker
	renderer *render.Renderer
	metrics  *observability.Metrics
	log      logger.Logger

	// newGalleryID is swapped in tests for deterministic ids
	newGalleryID func() string

	wg        sync.WaitGroup
	startTime time.Time
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		s.log = l
	}
}

// WithMetrics enables request metrics and the /metrics endpoint.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithGalleryIDFunc overrides how per-request gallery ids are generated.
func WithGalleryIDFunc(fn func() string) ServerOption {
	return func(s *Server) {
		s.newGalleryID = fn
	}
}

// New creates a server. fetcher and linker are usually the same
// gallery.Service and inaturalist.Client every request shares.
func New(config *Config, fetcher Fetcher, linker gallery.Linker, opts ...ServerOption) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.New(err).
			Component("httpserver").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if fetcher == nil || linker == nil {
		return nil, errors.Newf("gallery fetcher and linker are required").
			Component("httpserver").
			Category(errors.CategoryConfiguration).
			Build()
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	s := &Server{
		config:       config,
		fetcher:      fetcher,
		linker:       linker,
		renderer:     renderer,
		newGalleryID: render.NewGalleryID,
		startTime:    time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = GetLogger()
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Server.ReadTimeout = config.ReadTimeout
	s.echo.Server.WriteTimeout = config.WriteTimeout
	s.echo.Server.IdleTimeout = config.IdleTimeout
	s.echo.Renderer = &templateRenderer{renderer: renderer, metrics: s.httpMetrics()}

	s.setupMiddleware()
	s.setupRoutes()

	s.log.Info("HTTP server initialized", logger.String("address", config.Listen))

	return s, nil
}

// setupMiddleware configures the Echo middleware stack.
func (s *Server) setupMiddleware() {
	// Recovery middleware - should be first
	s.echo.Use(echomw.Recover())
	s.echo.Use(s.galleryIDMiddleware())
	s.echo.Use(s.requestMetrics())
	s.echo.Use(newRequestLogger(s.log))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", s.healthCheck)

	s.echo.GET("/gallery", s.handleGalleryFragment)
	s.echo.GET("/gallery/page", s.handleGalleryDocument)

	api := s.echo.Group("/api/v1")
	api.GET("/gallery", s.handleGalleryJSON)
	api.GET("/gallery/geojson", s.handleGalleryGeoJSON)

	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}
}

// healthCheck handles the liveness probe.
func (s *Server) healthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Start begins serving HTTP requests in a background goroutine and returns
// immediately. Use Shutdown to stop the server.
func (s *Server) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.startBlocking(); err != nil {
			s.log.Error("Server error", logger.Error(err))
		}
	}()

	s.log.Info("HTTP server starting", logger.String("address", s.config.Listen))
}

// startBlocking serves until the server is shut down.
func (s *Server) startBlocking() error {
	err := s.echo.Start(s.config.Listen)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// StartWithGracefulShutdown serves until ctx is done, then shuts down
// gracefully. A listener failure is returned as soon as it happens.
func (s *Server) StartWithGracefulShutdown(ctx context.Context) error {
	errCh := make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		errCh <- s.startBlocking()
	}()

	s.log.Info("HTTP server starting", logger.String("address", s.config.Listen))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("Shutdown signal received, initiating graceful shutdown")
		return s.Shutdown()
	}
}

// Shutdown gracefully stops the server, waiting at most the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		s.log.Error("Error during server shutdown", logger.Error(err))
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.wg.Wait()
	s.log.Info("Server shutdown complete", logger.Duration("uptime", time.Since(s.startTime)))
	return nil
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// httpMetrics returns the request collectors, nil when metrics are disabled.
func (s *Server) httpMetrics() *metrics.HTTPMetrics {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.HTTP
}
