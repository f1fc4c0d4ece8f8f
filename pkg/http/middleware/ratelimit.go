package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Allower decides whether a request for key may proceed.
type Allower interface {
	Allow(key string) bool
}

// RateLimit rejects requests over the per-client budget with 429. Paths in
// skip (e.g. /healthz, /metrics) are never limited. onReject may be nil.
func RateLimit(l Allower, onReject func(c echo.Context), skip ...string) echo.MiddlewareFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := skipped[c.Request().URL.Path]; ok {
				return next(c)
			}
			if l.Allow(c.RealIP()) {
				return next(c)
			}
			if onReject != nil {
				onReject(c)
			}
			c.Response().Header().Set("Retry-After", "1")
			return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
				"status":  http.StatusTooManyRequests,
				"message": http.StatusText(http.StatusTooManyRequests),
			})
		}
	}
}
