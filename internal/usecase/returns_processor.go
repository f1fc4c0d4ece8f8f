package usecase

import (
	"context"
	"fmt"
	"time"

	"RiskKit/internal/domain/models"
	domrepo "RiskKit/internal/domain/repository"
	"RiskKit/internal/domain/service"
)

// ReturnsProcessor routes observations to the configured backend: the ingest
// topic (kafka) or the return store directly (clickhouse).
type ReturnsProcessor struct {
	pub     domrepo.ObservationPublisher
	store   domrepo.ReturnStore
	metrics domrepo.Metrics
	stream  service.ReportStream
	backend string
}

// NewReturnsProcessor creates a new ReturnsProcessor instance.
func NewReturnsProcessor(
	pub domrepo.ObservationPublisher,
	store domrepo.ReturnStore,
	metrics domrepo.Metrics,
	stream service.ReportStream,
	backend string,
) *ReturnsProcessor {
	return &ReturnsProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		stream:  stream,
		backend: backend,
	}
}

var _ service.ReturnsIngestor = (*ReturnsProcessor)(nil)

func (p *ReturnsProcessor) Backend() string { return p.backend }

// Process routes a single observation.
func (p *ReturnsProcessor) Process(ctx context.Context, o models.Observation) error {
	return p.ProcessBatch(ctx, []models.Observation{o})
}

// ProcessBatch validates every observation, then routes the batch in one call.
func (p *ReturnsProcessor) ProcessBatch(ctx context.Context, obs []models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	for _, o := range obs {
		if err := o.Validate(); err != nil {
			p.metrics.RecordError("process_invalid")
			return err
		}
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		if p.pub == nil {
			err = fmt.Errorf("kafka backend without publisher")
			break
		}
		err = p.pub.PublishBatch(ctx, obs)
	case "clickhouse":
		if p.store == nil {
			err = fmt.Errorf("clickhouse backend without store")
			break
		}
		err = p.store.StoreBatch(ctx, obs)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownBackend, p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	names := seriesOf(obs)
	for _, o := range obs {
		p.metrics.RecordObservation(p.backend, o.Series)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	// Kafka-routed observations notify once the consumer stored them.
	if p.backend == "clickhouse" && p.stream != nil {
		p.stream.Notify(names...)
	}
	return nil
}

func seriesOf(obs []models.Observation) []string {
	seen := make(map[string]struct{}, len(obs))
	out := make([]string, 0, len(obs))
	for _, o := range obs {
		if _, ok := seen[o.Series]; ok {
			continue
		}
		seen[o.Series] = struct{}{}
		out = append(out, o.Series)
	}
	return out
}
