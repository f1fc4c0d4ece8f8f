package repository

import (
	"context"
	"strings"

	"RiskKit/internal/domain/models"
	"RiskKit/internal/domain/repository"
	pkgkafka "RiskKit/pkg/kafka"
)

// KafkaObservationPublisher implements ObservationPublisher for Kafka.
// Messages are keyed by series so one series stays on one partition.
type KafkaObservationPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaObservationPublisher creates Kafka publisher.
func NewKafkaObservationPublisher(producer *pkgkafka.Producer, topic string) *KafkaObservationPublisher {
	return &KafkaObservationPublisher{producer: producer, topic: topic}
}

var _ repository.ObservationPublisher = (*KafkaObservationPublisher)(nil)

func (p *KafkaObservationPublisher) Publish(ctx context.Context, o models.Observation) error {
	return p.producer.Publish(ctx, p.topic, []byte(o.Series), o)
}

func (p *KafkaObservationPublisher) PublishBatch(ctx context.Context, obs []models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(obs))
	for i, o := range obs {
		msgs[i] = pkgkafka.Message{Key: []byte(o.Series), Value: o}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

// Close is a no-op; the producer is shared and closed by the app.
func (p *KafkaObservationPublisher) Close() error { return nil }

// KafkaReportPublisher writes computed reports to the reports topic.
type KafkaReportPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaReportPublisher(producer *pkgkafka.Producer, topic string) *KafkaReportPublisher {
	return &KafkaReportPublisher{producer: producer, topic: topic}
}

var _ repository.ReportPublisher = (*KafkaReportPublisher)(nil)

func (p *KafkaReportPublisher) PublishReport(ctx context.Context, r *models.RiskReport) error {
	if r == nil || p.topic == "" {
		return nil
	}
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return p.producer.Publish(ctx, p.topic, []byte(strings.Join(names, ",")), r)
}
