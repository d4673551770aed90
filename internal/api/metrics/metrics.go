// Package metrics defines and registers all custom Prometheus metrics for
// the campus events portal. It is the single source of truth for metric
// names, labels, and help strings; registration happens at import time via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campus_events"

// ── Registration metrics ─────────────────────────────────────────────────────

// CheckoutLinesTotal counts processed cart lines by outcome.
// Label:
//   - outcome: "registered", "already_registered", or "failed"
var CheckoutLinesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_lines_total",
		Help:      "Total number of cart lines processed during checkout, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsCreatedTotal counts successful event registrations.
// Label:
//   - campus: the registering student's campus
var RegistrationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_created_total",
		Help:      "Total number of event registrations created.",
	},
	[]string{"campus"},
)

// ── Refresh metrics ──────────────────────────────────────────────────────────

// RefreshTicksTotal counts refresh passes by what initiated them.
// Label:
//   - trigger: "timer" or "notification"
var RefreshTicksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_ticks_total",
		Help:      "Total number of refresh passes, by trigger.",
	},
	[]string{"trigger"},
)

// RefreshErrorsTotal counts refresh hook failures per component.
var RefreshErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_errors_total",
		Help:      "Total number of failed component refresh hooks.",
	},
	[]string{"component"},
)

// ── Store metrics ────────────────────────────────────────────────────────────

// StoreBackendActive reports which storage driver was selected at startup
// (1 for the active backend, 0 otherwise).
var StoreBackendActive = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_backend_active",
		Help:      "Active record store backend (mongo or local fallback).",
	},
	[]string{"backend"},
)

// ── Attendance metrics ───────────────────────────────────────────────────────

// AttendanceRecordedTotal counts attendance entries created by the admin
// scanner, split by how the identity was resolved.
// Label:
//   - resolution: "payload", "student_id", or "unknown"
var AttendanceRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_recorded_total",
		Help:      "Total number of attendance records created, by identity resolution.",
	},
	[]string{"resolution"},
)
