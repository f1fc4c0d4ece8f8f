package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RiskKit/internal/service/ratelimit"
	"RiskKit/pkg/config"
	xhttp "RiskKit/pkg/http"
	pkgkafka "RiskKit/pkg/kafka"
	applogger "RiskKit/pkg/logger"
)

const sweepEvery = time.Minute

// App encapsulates the application lifecycle: the HTTP API, the optional
// ingest consumer and the rate limiter housekeeping. Infrastructure clients
// are closed by the cleanup returned from the injector.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	consumer   *pkgkafka.Consumer
	limiter    *ratelimit.Limiter
}

// New creates a new App. consumer and limiter may be nil.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	limiter *ratelimit.Limiter,
) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		log:        l.With(applogger.String("component", "app")),
		httpServer: httpServer,
		consumer:   consumer,
		limiter:    limiter,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.consumer != nil {
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("start kafka consumer: %w", err)
		}
	}
	if a.limiter != nil {
		go a.sweep(ctx)
	}

	errc := a.httpServer.Start()
	a.log.Info("riskkit started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("backend", a.cfg.Backend.Type),
		applogger.Int("port", a.cfg.Server.Port),
	)

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-errc:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}
	cancel()

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// shutdown stops accepting requests first, then drains the consumer.
func (a *App) shutdown() error {
	a.log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	a.log.Info("shutdown complete")
	return firstErr
}

func (a *App) sweep(ctx context.Context) {
	t := time.NewTicker(sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Sweep(); n > 0 {
				a.log.Debug("rate limiter swept", applogger.Int("removed", n), applogger.Int("tracked", a.limiter.Len()))
			}
		}
	}
}
