package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Writer is the subset of *kafka.Writer the producer uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON (or raw byte) payloads.
type Producer struct {
	writer Writer
	comp   string
}

// NewProducer creates a new Kafka producer.
func NewProducer(opts ...ProducerOption) (*Producer, error) {
	cfg := defaultProducerConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	bal := kafka.Balancer(&kafka.LeastBytes{})
	if cfg.HashByKey {
		bal = &kafka.Hash{}
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     bal,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:  parseCompression(cfg.Compression),
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		BatchSize:    cfg.BatchSize,
		BatchBytes:   int64(cfg.BatchBytes),
		BatchTimeout: cfg.BatchTimeout,
		Async:        cfg.Async,
		// Topics are created by ops; a typo should fail loudly.
		AllowAutoTopicCreation: false,
	}
	return NewProducerWithWriter(w, cfg.Compression), nil
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w Writer, compression string) *Producer {
	initMetrics()
	return &Producer{writer: w, comp: compression}
}

// Message is one keyed payload for PublishBatch.
type Message struct {
	Key   []byte
	Value interface{}
}

// Publish sends one message to topic.
func (p *Producer) Publish(ctx context.Context, topic string, key []byte, value interface{}) error {
	return p.PublishBatch(ctx, topic, []Message{{Key: key, Value: value}})
}

// PublishMessage sends an unkeyed payload. It satisfies logger.Publisher.
func (p *Producer) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.Publish(ctx, topic, nil, payload)
}

// PublishBatch sends messages to topic in a single write.
func (p *Producer) PublishBatch(ctx context.Context, topic string, messages []Message) error {
	if len(messages) == 0 {
		return nil
	}
	start := time.Now()
	now := start
	msgs := make([]kafka.Message, 0, len(messages))
	var total int64
	for _, m := range messages {
		v, err := encode(m.Value)
		if err != nil {
			return fmt.Errorf("marshal value: %w", err)
		}
		msgs = append(msgs, kafka.Message{Topic: topic, Key: m.Key, Value: v, Time: now})
		total += int64(len(v))
	}

	err := p.writer.WriteMessages(ctx, msgs...)
	observeProduce(topic, p.comp, total, len(msgs), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("write %d messages to %s: %w", len(msgs), topic, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func encode(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(value)
	}
}

func parseCompression(s string) kafka.Compression {
	switch s {
	case "snappy":
		return kafka.Snappy
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return kafka.Gzip
	}
}
