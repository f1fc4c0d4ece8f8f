package di

import (
	"context"
	"fmt"
	"time"

	"RiskKit/internal/domain/models"
	"RiskKit/internal/domain/repository"
	"RiskKit/internal/handler/api"
	internalrepo "RiskKit/internal/repository"
	"RiskKit/internal/service/cache"
	"RiskKit/internal/service/metrics"
	"RiskKit/internal/service/ratelimit"
	"RiskKit/internal/usecase"
	pkgch "RiskKit/pkg/clickhouse"
	"RiskKit/pkg/config"
	xhttp "RiskKit/pkg/http"
	"RiskKit/pkg/http/middleware"
	pkgkafka "RiskKit/pkg/kafka"
	applogger "RiskKit/pkg/logger"
	pkgmetrics "RiskKit/pkg/metrics"
	"RiskKit/pkg/server"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/kafka-go"
)

const returnsTable = "returns"

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if !cfg.KafkaEnabled() {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideLogger builds the application logger. Errors are aggregated and
// shipped to the log topic when Kafka is available.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, func(), error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil && cfg.Logging.CollectTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.CollectEvery,
			CountThreshold: cfg.Logging.CollectMax,
			Topic:          cfg.Logging.CollectTopic,
			Publisher:      producer,
		})
	}
	return l, l.RemoveCollector, nil
}

// ProvideClickHouseClient creates a ClickHouse client and the returns schema.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, func(), error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.ReturnsSchema(cfg.ClickHouse.Database, returnsTable)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	l.Info("clickhouse ready", applogger.String("database", cfg.ClickHouse.Database))

	return client, func() {
		if err := client.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return pkgmetrics.New()
}

// ProvideReturnStore creates the ClickHouse returns repository.
func ProvideReturnStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.ReturnStore {
	store := internalrepo.NewClickHouseReturnStore(chClient.DB(), cfg.ClickHouse.Database+"."+returnsTable)
	store.SetLogger(l.With(applogger.String("component", "return_store")))
	return store
}

// ProvideObservationPublisher creates the ingest topic publisher, nil without Kafka.
func ProvideObservationPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ObservationPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaObservationPublisher(producer, cfg.Kafka.Topic)
}

// ProvideReportPublisher creates the reports topic publisher, nil without Kafka.
func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ReportPublisher {
	if producer == nil || cfg.Kafka.ReportsTopic == "" {
		return nil
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.ReportsTopic)
}

// ProvideCache uses Redis when enabled and an in-process TTL cache otherwise.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.BytesCache, func(), error) {
	if !cfg.Redis.Enabled {
		return cache.NewTTLCache(), func() {}, nil
	}
	rc, err := cache.NewRedisCache(context.Background(), cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis cache ready", applogger.String("addr", cfg.Redis.Addr))
	return rc, func() { _ = rc.Close() }, nil
}

// ProvideStreamHub creates the report stream fan-out.
func ProvideStreamHub() *usecase.StreamHub {
	return usecase.NewStreamHub()
}

// ProvideRiskReporter creates the report use case.
func ProvideRiskReporter(
	store repository.ReturnStore,
	pub repository.ReportPublisher,
	c cache.BytesCache,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.RiskReporter {
	return usecase.NewRiskReporter(store, pub, c, m, l, usecase.RiskReporterConfig{
		Defaults: models.ReportParams{
			Level:          cfg.Risk.Level,
			PeriodsPerYear: cfg.Risk.PeriodsPerYear,
			RiskFreeRate:   cfg.Risk.RiskFreeRate,
			NormalityLevel: cfg.Risk.NormalityLevel,
		},
		CacheTTL:        cfg.Risk.CacheTTL,
		Timeout:         cfg.Risk.Timeout,
		MaxObservations: cfg.Risk.MaxObservations,
	})
}

// ProvideReturnsProcessor creates the ingest use case.
func ProvideReturnsProcessor(
	pub repository.ObservationPublisher,
	store repository.ReturnStore,
	m repository.Metrics,
	hub *usecase.StreamHub,
	cfg *config.Config,
) *usecase.ReturnsProcessor {
	return usecase.NewReturnsProcessor(pub, store, m, hub, cfg.Backend.Type)
}

// ProvideKafkaReturnsHandler creates the handler for the ingest topic.
func ProvideKafkaReturnsHandler(store repository.ReturnStore, m repository.Metrics, hub *usecase.StreamHub, cfg *config.Config) *usecase.KafkaReturnsHandler {
	return usecase.NewKafkaReturnsHandler(cfg.Kafka.Topic, store, m, hub)
}

// ProvideKafkaConsumer creates the ingest consumer. It only exists when
// observations are routed through Kafka.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger, kh *usecase.KafkaReturnsHandler) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NewHookChain(pkgkafka.HookFuncs{
		Err: func(ctx context.Context, topic string, km kafka.Message, _ []byte, err error) {
			l.Warn("ingest attempt failed",
				applogger.String("topic", topic),
				applogger.String("key", string(km.Key)),
				applogger.String("trace_id", pkgkafka.TraceID(ctx)),
				applogger.Error(err),
			)
		},
	}))
	consumer.RegisterHandler(kh)
	return consumer, nil
}

// ProvideRateLimiter creates the per-client limiter.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, 10*time.Minute)
}

// ProvideHandlers collects the HTTP handlers.
func ProvideHandlers(
	l *applogger.Logger,
	reporter *usecase.RiskReporter,
	processor *usecase.ReturnsProcessor,
	hub *usecase.StreamHub,
	store repository.ReturnStore,
	cfg *config.Config,
) api.Routes {
	return api.Routes{
		api.NewRiskEchoHandler(l, reporter, processor, store),
		api.NewRiskStreamHandler(l, reporter, hub, cfg.Risk.StreamPing),
	}
}

// ProvideHTTPServer creates the Echo server with the rate limiter in front of the routes.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, routes api.Routes, limiter *ratelimit.Limiter) *xhttp.Server {
	metrics.Register(nil)
	rl := middleware.RateLimit(limiter, func(echo.Context) { metrics.RateLimited.Inc() }, "/healthz", cfg.Metrics.Path)
	return xhttp.NewServer(routes,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins...),
		xhttp.WithMetricsPath(cfg.Metrics.Path),
		xhttp.WithLogger(l),
		xhttp.WithMiddleware(rl),
		xhttp.WithOnShutdown(routes.Close),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	limiter *ratelimit.Limiter,
) *server.App {
	return server.New(cfg, l, httpServer, consumer, limiter)
}
