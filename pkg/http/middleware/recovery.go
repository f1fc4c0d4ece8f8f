package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "RiskKit/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover returns recovery middleware.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	if l == nil {
		l = applogger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					l.Error("http handler panic",
						applogger.String("path", c.Path()),
						applogger.Error(perr),
						applogger.String("stack", string(debug.Stack())),
					)
					err = c.JSON(http.StatusInternalServerError, map[string]interface{}{
						"status":  http.StatusInternalServerError,
						"message": "Internal Server Error",
					})
				}
			}()
			return next(c)
		}
	}
}
