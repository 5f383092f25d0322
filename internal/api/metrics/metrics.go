// Package metrics defines and registers all custom Prometheus metrics for
// the directory API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default registry via promauto at
// package load; the router exposes them on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "directory"

// ListingsCreatedTotal counts published listings.
// Label:
//   - city: the listing's city
var ListingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created, by city.",
	},
	[]string{"city"},
)

// OrphanedImagesTotal counts images left behind by a partial cascade when a
// listing delete could not remove all of its images. The cascade is
// best-effort, not transactional; this counter is how the gap surfaces.
var OrphanedImagesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphaned_images_total",
		Help:      "Total number of images orphaned by incomplete cascade deletes.",
	},
)

// AuthzDenialsTotal counts authorization denials for callers whose identity
// was resolved but whose role or ownership was insufficient.
// Labels:
//   - role: the caller's role
//   - resource: the target resource kind
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of denied authorization decisions, by role and resource.",
	},
	[]string{"role", "resource"},
)

// LoginThrottleHitsTotal counts login attempts rejected by the
// failed-attempt throttle.
var LoginThrottleHitsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_throttle_hits_total",
		Help:      "Total number of login attempts blocked by the throttle.",
	},
)
