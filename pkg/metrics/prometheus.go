package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	observations *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	reports      *prometheus.CounterVec
	lastVaR      *prometheus.GaugeVec
	lastDrawdown *prometheus.GaugeVec
}

// New creates a recorder registered with the default registry.
func New() *Recorder { return NewWith(prometheus.DefaultRegisterer) }

// NewWith registers the recorder's collectors with reg.
func NewWith(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		observations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskkit_observations_total",
				Help: "Observations routed to a backend",
			},
			[]string{"backend", "series"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskkit_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskkit_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		reports: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskkit_reports_total",
				Help: "Column reports computed per series",
			},
			[]string{"series"},
		),
		lastVaR: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "riskkit_last_var_historic",
				Help: "Historic VaR from the latest report of a series",
			},
			[]string{"series"},
		),
		lastDrawdown: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "riskkit_last_max_drawdown",
				Help: "Max drawdown from the latest report of a series",
			},
			[]string{"series"},
		),
	}
}

// RecordObservation counts one observation sent to a backend.
func (r *Recorder) RecordObservation(backend, series string) {
	r.observations.WithLabelValues(backend, series).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordReport counts a column report and keeps its headline figures.
// NaN figures leave the gauges untouched.
func (r *Recorder) RecordReport(series string, varHistoric, maxDrawdown float64) {
	r.reports.WithLabelValues(series).Inc()
	if !math.IsNaN(varHistoric) {
		r.lastVaR.WithLabelValues(series).Set(varHistoric)
	}
	if !math.IsNaN(maxDrawdown) {
		r.lastDrawdown.WithLabelValues(series).Set(maxDrawdown)
	}
}
