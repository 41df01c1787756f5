// Package metrics exposes prometheus counters for reviews, remote sync and
// content generation. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vocabmaster"

// Sync results
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultStale = "stale"
)

// Metrics holds the registered collectors
type Metrics struct {
	registry    *prometheus.Registry
	reviews     *prometheus.CounterVec
	syncWrites  *prometheus.CounterVec
	generations *prometheus.CounterVec
}

// New creates collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Review actions applied to the progress store.",
		}, []string{"action"}),
		syncWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_writes_total",
			Help:      "Progress writes to durable storage by mode and result.",
		}, []string{"mode", "result"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Content generation requests by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.reviews, m.syncWrites, m.generations)
	return m
}

// ReviewApplied counts one graded item
func (m *Metrics) ReviewApplied(action string) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(action).Inc()
}

// SyncWrite counts one persistence attempt
func (m *Metrics) SyncWrite(mode, result string) {
	if m == nil {
		return
	}
	m.syncWrites.WithLabelValues(mode, result).Inc()
}

// Generation counts one content generation request
func (m *Metrics) Generation(result string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(result).Inc()
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
