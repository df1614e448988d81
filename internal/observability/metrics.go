package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the dashboard backend.
type Metrics struct {
	UpstreamRequests    *prometheus.CounterVec // labels: endpoint={current,stats,forecast,geocode,ipgeo}, outcome={success,error}
	ResolveOutcomes     *prometheus.CounterVec // labels: method={GPS,IP,none}, outcome={success,error}
	AggregationDuration prometheus.Histogram
}

// NewMetrics creates and registers all instruments with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UpstreamRequests,
		m.ResolveOutcomes,
		m.AggregationDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		ResolveOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "location_resolve_total",
			Help:      "Location resolution attempts by winning method and outcome.",
		}, []string{"method", "outcome"}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_dashboard",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of a complete three-endpoint weather aggregation.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
