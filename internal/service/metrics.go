package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for evaluations.
type Metrics struct {
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	symbols     prometheus.Histogram
}

// NewMetrics registers the evaluation collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nbase_evaluations_total",
				Help: "The total number of evaluations processed",
			},
			[]string{"op", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nbase_evaluation_duration_seconds",
				Help:    "The duration of evaluations in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12),
			},
			[]string{"op"},
		),
		symbols: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nbase_operand_symbols",
				Help:    "Length of evaluated operands in symbols",
				Buckets: prometheus.ExponentialBuckets(1, 4, 11),
			},
		),
	}
}

func (m *Metrics) observe(op, status string, seconds float64) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(seconds)
}

func (m *Metrics) observeOperand(symbols int) {
	if m == nil {
		return
	}
	m.symbols.Observe(float64(symbols))
}
