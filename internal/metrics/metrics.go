// Package metrics exposes Prometheus metrics for the uplink manager.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all uplink manager metrics.
type Registry struct {
	// Update pipeline
	UplinkUpdates  *prometheus.CounterVec // technology, outcome
	RenderFailures *prometheus.CounterVec // technology
	RecordsStored  *prometheus.GaugeVec   // technology

	// Monitor
	MonitorProbes *prometheus.CounterVec // target, result
}

// Get returns the global metrics registry, creating it on first use.
func Get() *Registry {
	once.Do(func() {
		registry = &Registry{
			UplinkUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "serac",
				Name:      "uplink_updates_total",
				Help:      "Uplink update requests by technology and outcome.",
			}, []string{"technology", "outcome"}),

			RenderFailures: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "serac",
				Name:      "uplink_render_failures_total",
				Help:      "Daemon artifact generation failures by technology.",
			}, []string{"technology"}),

			RecordsStored: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "serac",
				Name:      "uplink_records_stored",
				Help:      "Records in the persisted collection by technology.",
			}, []string{"technology"}),

			MonitorProbes: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "serac",
				Name:      "uplink_monitor_probes_total",
				Help:      "Reachability probe results by target.",
			}, []string{"target", "result"}),
		}
	})
	return registry
}
