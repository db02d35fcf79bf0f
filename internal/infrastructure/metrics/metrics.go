// Package metrics defines and registers the client-side Prometheus
// metrics for the back-office client. It is the single source of truth
// for metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// RequestsTotal counts outbound API requests by their outcome.
// Labels:
//   - method: the HTTP verb
//   - outcome: success, auth_rejected, session_expired, network_error,
//     backend_error
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of outbound API requests by outcome.",
	},
	[]string{"method", "outcome"},
)

// SessionExpiriesTotal counts forced session invalidations: a stored
// token rejected by the backend mid-session.
var SessionExpiriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_expiries_total",
		Help:      "Total number of forced session invalidations.",
	},
)

// ResourceFetchFailures counts degraded collection fetches: a screen's
// subordinate resource that failed and was substituted with an empty
// collection.
// Label:
//   - resource: the collection name (products, categories, orders, users)
var ResourceFetchFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resource_fetch_failures_total",
		Help:      "Total number of collection fetches degraded to empty results.",
	},
	[]string{"resource"},
)

// ScreenLoadsTotal counts full screen load attempts.
// Label:
//   - result: committed, discarded (superseded by a newer reload),
//     identity_failed
var ScreenLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "screen_loads_total",
		Help:      "Total number of screen load invocations by result.",
	},
	[]string{"result"},
)
