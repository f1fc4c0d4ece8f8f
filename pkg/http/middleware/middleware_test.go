package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

type countingAllower struct {
	budget int
	seen   map[string]int
}

func (a *countingAllower) Allow(key string) bool {
	if a.seen == nil {
		a.seen = map[string]int{}
	}
	a.seen[key]++
	return a.seen[key] <= a.budget
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "up") })
	e.GET("/panic", func(c echo.Context) error { panic("boom") })
	e.GET("/fail", func(c echo.Context) error { return errors.New("fail") })
	return e
}

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit(t *testing.T) {
	e := newEcho()
	rejected := 0
	e.Use(RateLimit(&countingAllower{budget: 2}, func(echo.Context) { rejected++ }, "/healthz"))

	assert.Equal(t, http.StatusOK, serve(e, "/ok").Code)
	assert.Equal(t, http.StatusOK, serve(e, "/ok").Code)
	rec := serve(e, "/ok")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, rejected)

	assert.Equal(t, http.StatusOK, serve(e, "/healthz").Code)
}

func TestRecover(t *testing.T) {
	e := newEcho()
	e.Use(Recover(nil))

	rec := serve(e, "/panic")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestMetricsAndLogging(t *testing.T) {
	e := newEcho()
	e.Use(MetricsWith(prometheus.NewRegistry(), nil, 0))
	e.Use(RequestLogging(nil))

	assert.Equal(t, http.StatusOK, serve(e, "/ok").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(e, "/fail").Code)
	assert.Equal(t, http.StatusNotFound, serve(e, "/missing").Code)
}

func TestCORS(t *testing.T) {
	e := newEcho()
	e.Use(CORS(CORSConfig{
		AllowOrigins: []string{"https://desk.example"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		MaxAge:       600,
	}))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(echo.HeaderOrigin, "https://desk.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://desk.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(echo.HeaderOrigin, "https://elsewhere.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodOptions, "/ok", nil)
	req.Header.Set(echo.HeaderOrigin, "https://desk.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))
}
