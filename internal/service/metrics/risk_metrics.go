package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	RiskLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "riskkit",
			Subsystem: "risk",
			Name:      "latency_seconds",
			Help:      "Latency of risk endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	RiskErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskkit",
			Subsystem: "risk",
			Name:      "errors_total",
			Help:      "Errors by risk endpoint and kind",
		},
		[]string{"endpoint", "kind"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "riskkit",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
	)

	StreamClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "riskkit",
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Open websocket report streams",
		},
	)
)

// Register registers the vectors with reg, once per process.
func Register(reg prometheus.Registerer) {
	once.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(RiskLatency, RiskErrors, RateLimited, StreamClients)
	})
}
