package repository

import (
	"context"

	"RiskKit/internal/domain/models"
)

// ReturnStore persists periodic returns.
type ReturnStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, o models.Observation) error
	StoreBatch(ctx context.Context, obs []models.Observation) error
	// Query returns observations ordered by series then period ascending.
	Query(ctx context.Context, q models.ReturnsQuery) ([]models.Observation, error)
	ListSeries(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// ObservationPublisher forwards observations to the ingest topic.
type ObservationPublisher interface {
	Publish(ctx context.Context, o models.Observation) error
	PublishBatch(ctx context.Context, obs []models.Observation) error
	Close() error
}

// ReportPublisher announces computed reports.
type ReportPublisher interface {
	PublishReport(ctx context.Context, r *models.RiskReport) error
}

type Metrics interface {
	RecordObservation(backend, series string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordReport(series string, varHistoric, maxDrawdown float64)
}
