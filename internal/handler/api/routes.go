package api

import (
	xhttp "RiskKit/pkg/http"

	"github.com/labstack/echo/v4"
)

// Routes registers several handlers on one server.
type Routes []xhttp.Handler

func (r Routes) RegisterRoutes(e *echo.Echo) {
	for _, h := range r {
		if h != nil {
			h.RegisterRoutes(e)
		}
	}
}

// Close shuts down handlers that hold long-lived connections.
func (r Routes) Close() {
	for _, h := range r {
		if c, ok := h.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
