// Package metrics defines all custom Prometheus metrics for the dispatch
// system. It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry via promauto
// at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dispatch"

// ── Geocoding metrics ─────────────────────────────────────────────────────────

// GeocodeRequestsTotal counts external geocoding provider calls.
// Label:
//   - result: "resolved", "no_result", or "error"
var GeocodeRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_requests_total",
		Help:      "Total number of external geocoding provider calls, by outcome.",
	},
	[]string{"result"},
)

// GeocodeCacheTotal counts location cache lookups.
// Label:
//   - result: "hit" (coordinate served from cache) or "miss"
var GeocodeCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_cache_total",
		Help:      "Total number of location cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Dispatch metrics ──────────────────────────────────────────────────────────

// BatchesTotal counts completed batch ranking passes.
// Label:
//   - result: "ok" or "error"
var BatchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batches_total",
		Help:      "Total number of batch ranking passes, by result.",
	},
	[]string{"result"},
)

// BatchDuration measures how long one batch ranking pass takes end-to-end,
// including geocoding.
var BatchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_duration_seconds",
		Help:      "Duration of a batch ranking pass from snapshot load to result.",
		Buckets:   prometheus.DefBuckets,
	},
)

// OrdersRankedTotal counts orders annotated by batch passes.
var OrdersRankedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_ranked_total",
		Help:      "Total number of orders annotated with eligible restaurants.",
	},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts newly registered orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders registered through the API.",
	},
)
