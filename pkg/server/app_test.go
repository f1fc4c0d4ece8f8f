package server

import (
	"context"
	"testing"
	"time"

	"RiskKit/internal/service/ratelimit"
	"RiskKit/pkg/config"
	xhttp "RiskKit/pkg/http"

	"github.com/stretchr/testify/require"
)

func TestAppRunStopsOnContextCancel(t *testing.T) {
	cfg, err := config.Parse([]byte("environment: test\n"))
	require.NoError(t, err)

	srv := xhttp.NewServer(nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithTimeouts(time.Second, time.Second, time.Second),
	)
	app := New(cfg, nil, srv, nil, ratelimit.New(10, 10, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
