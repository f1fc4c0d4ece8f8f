package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	applogger "RiskKit/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// MessageHandler handles messages from a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// Reader is the subset of *kafka.Reader the consumer uses. Offsets are
// committed explicitly after the handler (or the DLQ) took the message.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ReaderFactory builds a reader for one topic.
type ReaderFactory func(cfg *ConsumerConfig, topic string) Reader

func newKafkaReader(cfg *ConsumerConfig, topic string) Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.GroupID,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
}

// Consumer fans messages from one reader per topic out to a worker pool.
// At most one message per (topic, partition) is in flight so per-series order
// survives when producers hash by key.
type Consumer struct {
	cfg       *ConsumerConfig
	log       *applogger.Logger
	newReader ReaderFactory
	readers   map[string]Reader
	handlers  map[string]MessageHandler
	hook      ConsumerHook
	dlq       Writer

	msgs      chan *message
	ctx       context.Context
	cancel    context.CancelFunc
	readersWG sync.WaitGroup
	workersWG sync.WaitGroup
	stopOnce  sync.Once

	partMu    sync.Mutex
	partLocks map[partKey]*sync.Mutex
}

type message struct {
	topic string
	km    kafka.Message
}

type partKey struct {
	topic     string
	partition int
}

// NewConsumer creates a new Kafka consumer.
func NewConsumer(l *applogger.Logger, opts ...ConsumerOption) (*Consumer, error) {
	cfg := defaultConsumerConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if l == nil {
		l = applogger.Nop()
	}

	c := &Consumer{
		cfg:       cfg,
		log:       l.With(applogger.String("component", "kafka_consumer")),
		newReader: newKafkaReader,
		readers:   make(map[string]Reader),
		handlers:  make(map[string]MessageHandler),
		hook:      NoopHook{},
		partLocks: make(map[partKey]*sync.Mutex),
	}
	if cfg.DLQTopic != "" {
		c.dlq = &kafka.Writer{Addr: kafka.TCP(cfg.Brokers...), Balancer: &kafka.Hash{}}
	}
	initMetrics()
	return c, nil
}

// SetReaderFactory replaces how readers are built. Call before Start.
func (c *Consumer) SetReaderFactory(f ReaderFactory) { c.newReader = f }

// SetDLQWriter replaces the dead letter writer. Call before Start.
func (c *Consumer) SetDLQWriter(w Writer) { c.dlq = w }

// WithConsumerHook sets the lifecycle hook.
func (c *Consumer) WithConsumerHook(h ConsumerHook) {
	if h != nil {
		c.hook = h
	}
}

// RegisterHandler registers a handler for its topic. The first registration wins.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, ok := c.handlers[topic]; ok {
		c.log.Warn("handler already registered", applogger.String("topic", topic))
		return
	}
	c.handlers[topic] = handler
}

// Start launches the workers and one reader per registered topic.
func (c *Consumer) Start() error {
	if len(c.handlers) == 0 {
		return errors.New("no handlers registered")
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.msgs = make(chan *message, c.cfg.BufferSize)

	for i := 0; i < c.cfg.WorkerCount; i++ {
		c.workersWG.Add(1)
		go c.worker()
	}
	for topic := range c.handlers {
		r := c.newReader(c.cfg, topic)
		c.readers[topic] = r
		c.readersWG.Add(1)
		go c.consume(topic, r)
	}
	c.log.Info("kafka consumer started",
		applogger.Int("workers", c.cfg.WorkerCount),
		applogger.Int("topics", len(c.readers)),
		applogger.String("group", c.cfg.GroupID),
	)
	return nil
}

// Stop stops fetching, drains queued messages and closes readers.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error
	c.stopOnce.Do(func() {
		if c.cancel == nil {
			return
		}
		c.cancel()

		done := make(chan struct{})
		go func() {
			c.readersWG.Wait()
			close(c.msgs)
			c.workersWG.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			stopErr = fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
		}

		for topic, r := range c.readers {
			if err := r.Close(); err != nil {
				c.log.Warn("close reader", applogger.String("topic", topic), applogger.Error(err))
			}
		}
		if c.dlq != nil {
			if err := c.dlq.Close(); err != nil {
				c.log.Warn("close dlq writer", applogger.Error(err))
			}
		}
		if stopErr == nil {
			c.log.Info("kafka consumer stopped")
		}
	})
	return stopErr
}

func (c *Consumer) consume(topic string, r Reader) {
	defer c.readersWG.Done()
	failures := 0
	for {
		km, err := r.FetchMessage(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			failures++
			c.log.Warn("fetch message", applogger.String("topic", topic), applogger.Error(err))
			if !c.sleep(backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, failures)) {
				return
			}
			continue
		}
		failures = 0

		select {
		case c.msgs <- &message{topic: topic, km: km}:
			consumerQueueDepth.WithLabelValues(topic).Set(float64(len(c.msgs)))
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Consumer) worker() {
	defer c.workersWG.Done()
	for msg := range c.msgs {
		c.process(msg)
	}
}

func (c *Consumer) process(msg *message) {
	handler, ok := c.handlers[msg.topic]
	if !ok {
		return
	}
	start := time.Now()
	defer func() {
		consumerLatency.WithLabelValues(msg.topic).Observe(time.Since(start).Seconds())
	}()

	pl := c.partitionLock(msg.topic, msg.km.Partition)
	pl.Lock()
	defer pl.Unlock()

	attempts, err := c.handleWithRetry(handler, msg)
	if errors.Is(err, errStopping) {
		// Not committed; the group will redeliver after rebalance.
		consumerHandled.WithLabelValues(msg.topic, "dropped").Inc()
		return
	}

	switch {
	case err == nil && attempts == 1:
		consumerHandled.WithLabelValues(msg.topic, "ok").Inc()
	case err == nil:
		consumerHandled.WithLabelValues(msg.topic, "retried_ok").Inc()
	default:
		c.log.Error("message failed",
			applogger.String("topic", msg.topic),
			applogger.Int("partition", msg.km.Partition),
			applogger.Int64("offset", msg.km.Offset),
			applogger.Int("attempts", attempts),
			applogger.Error(err),
		)
		if !c.toDLQ(msg, err) {
			// Without a DLQ the offset stays uncommitted so the message is retried later.
			consumerHandled.WithLabelValues(msg.topic, "dropped").Inc()
			return
		}
		consumerHandled.WithLabelValues(msg.topic, "dlq").Inc()
	}

	if r := c.readers[msg.topic]; r != nil {
		c.commitWithRetry(r, msg.km, 3)
	}
}

var errStopping = errors.New("consumer stopping")

func (c *Consumer) handleWithRetry(handler MessageHandler, msg *message) (int, error) {
	attempts := 0
	for {
		attempts++
		ctx := WithStartTime(c.ctx, time.Now())
		ctx = WithTraceID(ctx, ExtractTraceID(msg.km))

		hctx, data, err := c.hook.BeforeHandle(ctx, msg.topic, msg.km, msg.km.Value)
		if err == nil {
			err = safeHandle(handler, hctx, data)
			c.hook.AfterHandle(hctx, msg.topic, msg.km, data, err)
		}
		if err == nil {
			return attempts, nil
		}
		c.hook.OnError(hctx, msg.topic, msg.km, data, err)
		if attempts > c.cfg.RetryMax {
			return attempts, err
		}
		if !c.sleep(backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, attempts)) {
			return attempts, errStopping
		}
	}
}

func safeHandle(h MessageHandler, ctx context.Context, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, data)
}

func (c *Consumer) toDLQ(msg *message, cause error) bool {
	if c.dlq == nil || c.cfg.DLQTopic == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.dlq.WriteMessages(ctx, kafka.Message{
		Topic: c.cfg.DLQTopic,
		Key:   msg.km.Key,
		Value: msg.km.Value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "source_topic", Value: []byte(msg.topic)},
			{Key: "error", Value: []byte(cause.Error())},
		},
	})
	if err != nil {
		c.log.Error("write to dlq", applogger.String("dlq", c.cfg.DLQTopic), applogger.Error(err))
		return false
	}
	return true
}

func (c *Consumer) commitWithRetry(r Reader, km kafka.Message, max int) {
	var err error
	for attempt := 1; attempt <= max; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = r.CommitMessages(ctx, km)
		cancel()
		if err == nil {
			return
		}
		time.Sleep(backoffWithJitter(50*time.Millisecond, 500*time.Millisecond, attempt))
	}
	c.log.Error("commit offset", applogger.String("topic", km.Topic), applogger.Int64("offset", km.Offset), applogger.Error(err))
}

func (c *Consumer) partitionLock(topic string, partition int) *sync.Mutex {
	k := partKey{topic, partition}
	c.partMu.Lock()
	defer c.partMu.Unlock()
	l, ok := c.partLocks[k]
	if !ok {
		l = &sync.Mutex{}
		c.partLocks[k] = l
	}
	return l
}

// sleep waits d or until the consumer stops; false means stopping.
func (c *Consumer) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-c.ctx.Done():
		return false
	}
}

func backoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	if attempt < 1 {
		attempt = 1
	}
	exp := max
	if attempt < 31 {
		if d := min << uint(attempt-1); d > 0 && d < max {
			exp = d
		}
	}
	half := int64(exp) / 2
	if half <= 0 {
		return exp
	}
	return exp - time.Duration(rand.Int63n(half))
}
