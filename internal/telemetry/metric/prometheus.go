// Package metric provides Prometheus metrics for GridMap.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation label values.
const (
	OpGet = "get"
	OpSet = "set"
	OpDel = "del"
)

// Outcome label values.
const (
	OutcomeHit    = "hit"
	OutcomeMiss   = "miss"
	OutcomeInsert = "insert"
	OutcomeUpdate = "update"
	OutcomeError  = "error"
)

// Registry holds all application metrics.
type Registry struct {
	// OpsTotal counts key-value operations by op and outcome.
	OpsTotal *prometheus.CounterVec

	// OpDuration samples operation latency by op.
	OpDuration *prometheus.HistogramVec

	// HTTPRequests counts admin HTTP requests by path and status.
	HTTPRequests *prometheus.CounterVec

	// ConnectionsActive tracks open RESP connections.
	ConnectionsActive prometheus.Gauge

	reg *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all vectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridmap",
			Name:      "ops_total",
			Help:      "Key-value operations by op and outcome.",
		}, []string{"op", "outcome"}),

		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gridmap",
			Name:      "op_duration_seconds",
			Help:      "Key-value operation latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}, []string{"op"}),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridmap",
			Name:      "http_requests_total",
			Help:      "Admin HTTP requests by path and status code.",
		}, []string{"path", "status"}),

		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gridmap",
			Name:      "connections_active",
			Help:      "Open RESP client connections.",
		}),

		reg: reg,
	}

	reg.MustRegister(r.OpsTotal, r.OpDuration, r.HTTPRequests, r.ConnectionsActive)

	return r
}

// MustRegister registers additional collectors (e.g., the table collector).
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.reg.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
