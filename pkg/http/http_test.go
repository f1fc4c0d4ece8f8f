package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name   string  `json:"name" validate:"required"`
	Method string  `json:"method" default:"historic" validate:"oneof=historic cvar"`
	Level  float64 `json:"level" validate:"omitempty,gt=0,lt=100"`
}

func newContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestReadAndValidateRequest(t *testing.T) {
	c, _ := newContext(`{"name":"a"}`)
	var req sampleRequest

	require.Nil(t, ReadAndValidateRequest(c, &req))
	assert.Equal(t, "historic", req.Method)
}

func TestReadAndValidateRequest_Errors(t *testing.T) {
	c, _ := newContext(`{"method":"bogus","level":150}`)
	var req sampleRequest

	errs, ok := ReadAndValidateRequest(c, &req).([]ValidationError)
	require.True(t, ok)
	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Code
	}
	assert.Equal(t, "ERR_REQUIRED", fields["name"])
	assert.Equal(t, "ERR_ONEOF", fields["method"])
	assert.Equal(t, "ERR_LT", fields["level"])
}

func TestReadAndValidateRequest_BadJSON(t *testing.T) {
	c, _ := newContext(`{"name":`)
	var req sampleRequest

	errs, ok := ReadAndValidateRequest(c, &req).([]ValidationError)
	require.True(t, ok)
	assert.Equal(t, "ERR_UNKNOWN", errs[0].Code)
}

func TestAppErrorResponse(t *testing.T) {
	c, rec := newContext("")

	require.NoError(t, AppErrorResponse(c, NotFoundErrorf("series %s not found", "X")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Status int         `json:"status"`
		Data   []*AppError `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Equal(t, "ERR_NOT_FOUND", body.Data[0].Code)
	assert.Equal(t, "series X not found", body.Data[0].Message)
}

func TestAppErrorResponse_Unknown(t *testing.T) {
	c, rec := newContext("")

	require.NoError(t, AppErrorResponse(c, assert.AnError))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServerStopRunsShutdownHooks(t *testing.T) {
	called := make(chan struct{})
	srv := NewServer(nil, WithHost("127.0.0.1"), WithPort(0), WithOnShutdown(func() { close(called) }))

	require.NoError(t, srv.Stop(context.Background()))

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("shutdown hook not run")
	}
}
