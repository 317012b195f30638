// Package metrics exposes Prometheus counters for allocation outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "seating"

// Metrics groups the collectors of the seating service. A nil *Metrics is valid and records nothing.
type Metrics struct {
	reservationsCreated *prometheus.CounterVec
	allocationFailures  *prometheus.CounterVec
	availabilityChecks  *prometheus.CounterVec
	statusChanges       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Reservations assigned to a table.",
		}, []string{"area"}),
		allocationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocation_failures_total",
			Help:      "Reservation requests that could not be assigned a table.",
		}, []string{"area", "reason"}),
		availabilityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_checks_total",
			Help:      "Availability queries by outcome.",
		}, []string{"area", "available"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_changes_total",
			Help:      "Reservation status transitions by target status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.reservationsCreated, m.allocationFailures, m.availabilityChecks, m.statusChanges)
	return m
}

func (m *Metrics) ReservationCreated(area string) {
	if m == nil {
		return
	}
	m.reservationsCreated.WithLabelValues(area).Inc()
}

// AllocationFailed records a rejected allocation; reason is "capacity" or "conflict".
func (m *Metrics) AllocationFailed(area, reason string) {
	if m == nil {
		return
	}
	m.allocationFailures.WithLabelValues(area, reason).Inc()
}

func (m *Metrics) AvailabilityChecked(area string, available bool) {
	if m == nil {
		return
	}
	label := "false"
	if available {
		label = "true"
	}
	m.availabilityChecks.WithLabelValues(area, label).Inc()
}

func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}
