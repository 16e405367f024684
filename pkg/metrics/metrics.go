// Package metrics registers the Prometheus instrumentation exposed on
// /metrics. A single Metrics value is created in main and shared by the HTTP
// layer and the ranker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the application's collectors.
type Metrics struct {
	SearchRequests   *prometheus.CounterVec
	SearchDuration   prometheus.Histogram
	PlatformFailures *prometheus.CounterVec
	Recommendations  *prometheus.HistogramVec
}

// New registers all collectors on the given registerer and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SearchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reco_search_requests_total",
			Help: "Search API requests by HTTP status.",
		}, []string{"status"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reco_search_duration_seconds",
			Help:    "End-to-end latency of search plus ranking.",
			Buckets: prometheus.DefBuckets,
		}),
		PlatformFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reco_platform_failures_total",
			Help: "Upstream platform call failures by platform.",
		}, []string{"platform"}),
		Recommendations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reco_recommendations_returned",
			Help:    "Number of recommendations returned per platform.",
			Buckets: []float64{0, 5, 10, 20, 35, 50},
		}, []string{"platform"}),
	}
}
