package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"RiskKit/internal/domain/models"
	domrepo "RiskKit/internal/domain/repository"
	"RiskKit/internal/domain/service"
	pkgkafka "RiskKit/pkg/kafka"
)

// KafkaReturnsHandler consumes observations from the ingest topic, writes
// them to the return store and wakes the report streams.
type KafkaReturnsHandler struct {
	topic   string
	store   domrepo.ReturnStore
	metrics domrepo.Metrics
	stream  service.ReportStream
}

func NewKafkaReturnsHandler(topic string, store domrepo.ReturnStore, metrics domrepo.Metrics, stream service.ReportStream) *KafkaReturnsHandler {
	return &KafkaReturnsHandler{topic: topic, store: store, metrics: metrics, stream: stream}
}

func (h *KafkaReturnsHandler) Topic() string { return h.topic }

// incoming message schema: {series, period, return}
func (h *KafkaReturnsHandler) Handle(ctx context.Context, b []byte) error {
	var o models.Observation
	if err := json.Unmarshal(b, &o); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode observation: %w", err)
	}
	if err := o.Validate(); err != nil {
		h.metrics.RecordError("consumer_invalid")
		return err
	}
	start := time.Now()
	err := h.store.Store(ctx, o)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return fmt.Errorf("store observation: %w", err)
	}
	h.metrics.RecordObservation("clickhouse", o.Series)

	if h.stream != nil {
		h.stream.Notify(o.Series)
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaReturnsHandler)(nil)
