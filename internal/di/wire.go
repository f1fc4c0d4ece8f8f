//go:build wireinject
// +build wireinject

package di

import (
	"RiskKit/pkg/config"
	"RiskKit/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideClickHouseClient,
		ProvideCache,

		// Metrics
		ProvideMetrics,

		// Repositories
		ProvideReturnStore,
		ProvideObservationPublisher,
		ProvideReportPublisher,

		// Use cases
		ProvideStreamHub,
		ProvideRiskReporter,
		ProvideReturnsProcessor,
		ProvideKafkaReturnsHandler,
		ProvideKafkaConsumer,

		// HTTP
		ProvideRateLimiter,
		ProvideHandlers,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil, nil
}
