package service

import (
	"context"

	"RiskKit/internal/domain/models"
	"RiskKit/internal/services/risk"
)

// RiskAnalyzer builds risk reports from supplied or stored returns.
type RiskAnalyzer interface {
	Defaults() models.ReportParams
	Report(ctx context.Context, t risk.Table, p models.ReportParams) (*models.RiskReport, error)
	StoredReport(ctx context.Context, q models.ReturnsQuery, p models.ReportParams) (*models.RiskReport, error)
	RefreshReport(ctx context.Context, q models.ReturnsQuery, p models.ReportParams) (*models.RiskReport, error)
}

// ReturnsIngestor accepts observations from the API.
type ReturnsIngestor interface {
	ProcessBatch(ctx context.Context, obs []models.Observation) error
	Backend() string
}

// ReportStream lets readers wait for new observations of given series.
type ReportStream interface {
	Subscribe(series []string) (<-chan struct{}, func())
	Notify(series ...string)
}
