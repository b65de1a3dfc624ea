// Package metrics defines and registers the Prometheus metrics of the farm
// client. It is the single source of truth for metric names, labels, and help
// strings. All metrics register with the default registry at package init and
// are exposed by the ops HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smartfarm"

// ── Backend requests ──────────────────────────────────────────────────────────

// ClientRequestsTotal counts requests issued through the API client.
// Labels:
//   - method: HTTP method
//   - code: response status code, or "error" when no response arrived
//   - authenticated: "true" when a credential was attached
var ClientRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_requests_total",
		Help:      "Total number of backend requests issued by the API client.",
	},
	[]string{"method", "code", "authenticated"},
)

// ClientRequestDuration measures backend round trips.
var ClientRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "client_request_duration_seconds",
		Help:      "Duration of backend requests issued by the API client.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Session ───────────────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session store mutations.
// Label:
//   - event: "login", "logout", "restored", "restore_empty", "restore_malformed", "restore_expired"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session store transitions, by event.",
	},
	[]string{"event"},
)

// ── Notifications ─────────────────────────────────────────────────────────────

// NotificationsPublishedTotal counts publications per topic.
var NotificationsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_published_total",
		Help:      "Total number of cross-view notifications published, by topic.",
	},
	[]string{"topic"},
)

// NotificationHandlerPanicsTotal counts subscriber handlers that panicked.
var NotificationHandlerPanicsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_handler_panics_total",
		Help:      "Total number of notification handlers that panicked during delivery.",
	},
	[]string{"topic"},
)

// ── Fetches ───────────────────────────────────────────────────────────────────

// FetchOutcomesTotal counts view fetch completions.
// Labels:
//   - view: fetcher name (e.g. "weather", "navbar.cart")
//   - outcome: "success", "error", or "discarded" (superseded before it settled)
var FetchOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_outcomes_total",
		Help:      "Total number of view fetch completions, by view and outcome.",
	},
	[]string{"view", "outcome"},
)
