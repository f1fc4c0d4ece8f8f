package middleware

import (
	"time"

	applogger "RiskKit/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs HTTP requests at debug level; errors and slow
// requests are logged by Metrics.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	if l == nil {
		l = applogger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			l.Debug("http request",
				applogger.String("method", req.Method),
				applogger.String("uri", req.RequestURI),
				applogger.String("remote", c.RealIP()),
				applogger.Int("status", c.Response().Status),
				applogger.Duration("duration_ms", time.Since(start)),
			)
			return nil
		}
	}
}
