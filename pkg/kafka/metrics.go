package kafka

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce sync.Once

	producerMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskkit_kafka_producer_messages_total",
			Help: "Messages written to Kafka by result",
		},
		[]string{"topic", "compression", "result"},
	)
	producerBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskkit_kafka_producer_bytes_total",
			Help: "Payload bytes written to Kafka",
		},
		[]string{"topic", "compression"},
	)
	producerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riskkit_kafka_producer_publish_seconds",
			Help:    "Publish latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
	consumerQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "riskkit_kafka_consumer_queue_depth",
			Help: "Messages waiting for a worker",
		},
		[]string{"topic"},
	)
	consumerHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskkit_kafka_consumer_messages_total",
			Help: "Consumed messages by outcome (ok, retried_ok, dlq, dropped)",
		},
		[]string{"topic", "outcome"},
	)
	consumerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riskkit_kafka_consumer_handle_seconds",
			Help:    "Handling time per message including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
)

// MetricsRegisterer is where the package registers its collectors. Tests may
// swap it for a fresh registry before the first producer or consumer is built.
var MetricsRegisterer prometheus.Registerer = prometheus.DefaultRegisterer

func initMetrics() {
	metricsOnce.Do(func() {
		MetricsRegisterer.MustRegister(
			producerMessages, producerBytes, producerLatency,
			consumerQueueDepth, consumerHandled, consumerLatency,
		)
	})
}

func observeProduce(topic, comp string, bytes int64, count int, dur time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	producerMessages.WithLabelValues(topic, comp, result).Add(float64(count))
	if err == nil {
		producerBytes.WithLabelValues(topic, comp).Add(float64(bytes))
	}
	producerLatency.WithLabelValues(topic).Observe(dur.Seconds())
}
