// Package metrics defines and registers all custom Prometheus metrics for
// the booking platform API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "misitiofacil"

// ── Business metrics ─────────────────────────────────────────────────────────

// BusinessesCreatedTotal counts provisioned businesses.
// Label:
//   - category: the business category (e.g. "barbershop")
var BusinessesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "businesses_created_total",
		Help:      "Total number of businesses created, by category.",
	},
	[]string{"category"},
)

// TemplateResolutionsTotal counts template resolutions during provisioning.
// Label:
//   - mode: "requested" (the referenced template was used) or "fallback"
var TemplateResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "template_resolutions_total",
		Help:      "Total number of template resolutions, by mode (requested/fallback).",
	},
	[]string{"mode"},
)

// ── Reservation metrics ──────────────────────────────────────────────────────

// ReservationsCreatedTotal counts new bookings.
// Label:
//   - client_kind: "registered" or "guest"
var ReservationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_created_total",
		Help:      "Total number of reservations created, by client kind.",
	},
	[]string{"client_kind"},
)

// ReservationTransitionsTotal counts status transitions that were applied.
// Label:
//   - to_status: the status entered (e.g. "confirmed", "cancelled")
var ReservationTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_transitions_total",
		Help:      "Total number of reservation status transitions, by target status.",
	},
	[]string{"to_status"},
)

// NotifyQueueDepth tracks the current number of events waiting in each
// notification worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Auth metrics ─────────────────────────────────────────────────────────────

// LoginLockoutsTotal counts accounts locked after repeated login failures.
var LoginLockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_lockouts_total",
		Help:      "Total number of accounts locked out after repeated login failures.",
	},
)
