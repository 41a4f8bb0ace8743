// Package metrics exposes Prometheus collectors for the canvas server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "place"

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	ConnectionsTotal   prometheus.Counter
	ConnectionsDenied  prometheus.Counter
	SessionsActive     prometheus.Gauge
	LoginsRejected     prometheus.Counter
	TileChangesTotal   prometheus.Counter
	ChangesThrottled   prometheus.Counter
	ChangesInvalid     prometheus.Counter
	BroadcastsTotal    prometheus.Counter
	BroadcastQueueFull prometheus.Counter
}

// New registers the collectors with the given registerer. Tests pass a
// fresh registry so parallel servers do not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConnectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Total websocket connections accepted.",
		}),
		ConnectionsDenied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_denied_total",
			Help:      "Connections rejected by the admission gate.",
		}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Currently joined sessions.",
		}),
		LoginsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_rejected_total",
			Help:      "Logins rejected because the name was taken.",
		}),
		TileChangesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tile_changes_total",
			Help:      "Tile changes committed to the board.",
		}),
		ChangesThrottled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "changes_throttled_total",
			Help:      "Tile changes dropped by the per-session rate limit.",
		}),
		ChangesInvalid: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "changes_invalid_total",
			Help:      "Tile changes dropped for out-of-range coordinates.",
		}),
		BroadcastsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Per-session broadcast enqueues.",
		}),
		BroadcastQueueFull: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_queue_full_total",
			Help:      "Sessions dropped because their outbound queue was full.",
		}),
	}
}
