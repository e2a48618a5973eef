package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/tphakala/inat-gallery/internal/errors"
	"github.com/tphakala/inat-gallery/internal/logger"
)

// galleryIDKey is the echo context key holding the request's gallery id.
const galleryIDKey = "gallery_id"

// galleryIDMiddleware assigns every request a gallery id and attaches it to
// the request context as the trace id.
func (s *Server) galleryIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := s.newGalleryID()
			c.Set(galleryIDKey, id)

			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithTraceID(req.Context(), id)))
			return next(c)
		}
	}
}

// requestMetrics records count and latency per route.
func (s *Server) requestMetrics() echo.MiddlewareFunc {
	m := s.httpMetrics()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			m.RecordHTTPRequest(c.Request().Method, routePath(c), responseStatus(c, err), time.Since(start))
			return err
		}
	}
}

// routePath returns the matched route pattern so unknown URLs do not create
// new label values.
func routePath(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return "unmatched"
}

// responseStatus returns the status the error handler will write for err.
func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// newRequestLogger logs one line per request. Probe and scrape endpoints are
// skipped.
func newRequestLogger(log logger.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/healthz" || c.Path() == "/metrics"
		},
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []logger.Field{
				logger.String("method", v.Method),
				logger.String("uri", v.URI),
				logger.Int("status", v.Status),
				logger.String("ip", v.RemoteIP),
				logger.Duration("latency", v.Latency),
			}

			reqLog := log.WithContext(c.Request().Context())
			switch {
			case v.Error != nil && v.Status >= http.StatusInternalServerError:
				reqLog.Error("HTTP request", append(fields, logger.Error(v.Error))...)
			case v.Status >= http.StatusBadRequest:
				reqLog.Warn("HTTP request", fields...)
			default:
				reqLog.Info("HTTP request", fields...)
			}
			return nil
		},
	})
}
