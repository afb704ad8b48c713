package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/nbase/pkg/nbase"
)

// Metrics holds the HTTP level collectors and serves the registry they are
// registered on.
type Metrics struct {
	activeRequests prometheus.Gauge
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	handler        http.Handler
}

// NewMetrics registers the HTTP collectors on reg, together with gauges and
// counters that read the charset registry statistics at scrape time.
func NewMetrics(reg *prometheus.Registry, charsets *nbase.Registry) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		activeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nbase_http_active_requests",
			Help: "The number of HTTP requests being served",
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nbase_http_requests_total",
			Help: "The total number of HTTP requests",
		}, []string{"route", "code"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nbase_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}
	if charsets != nil {
		stat := func(f func(nbase.RegistryStats) float64) func() float64 {
			return func() float64 { return f(charsets.Stats()) }
		}
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "nbase_charset_registry_size",
			Help: "Charsets currently held by the registry",
		}, stat(func(s nbase.RegistryStats) float64 { return float64(s.Size) }))
		factory.NewCounterFunc(prometheus.CounterOpts{
			Name: "nbase_charset_registry_hits_total",
			Help: "Charset lookups served from the registry",
		}, stat(func(s nbase.RegistryStats) float64 { return float64(s.Hits) }))
		factory.NewCounterFunc(prometheus.CounterOpts{
			Name: "nbase_charset_registry_misses_total",
			Help: "Charset lookups that had to validate the symbols",
		}, stat(func(s nbase.RegistryStats) float64 { return float64(s.Misses) }))
		factory.NewCounterFunc(prometheus.CounterOpts{
			Name: "nbase_charset_registry_evictions_total",
			Help: "Times the registry was cleared for being full",
		}, stat(func(s nbase.RegistryStats) float64 { return float64(s.Evictions) }))
	}
	return m
}

// ServeHTTP renders the registry in the Prometheus exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
