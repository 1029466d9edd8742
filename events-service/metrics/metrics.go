package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for the events service
type Metrics struct {
	// HTTP requests served (method, path, status_code)
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP latency (method, path)
	HTTPRequestDuration *prometheus.HistogramVec

	// Availability lookups (outcome: found, empty, unavailable)
	AvailabilityLookupsTotal *prometheus.CounterVec

	// Reservation attempts (outcome: booked, rejected, compensated, orphaned, error)
	ReservationsTotal *prometheus.CounterVec

	// Cancellations (outcome: cancelled, orphaned, not_found, error)
	CancellationsTotal *prometheus.CounterVec

	// Calls to the venue service (operation, outcome)
	VenueRequestDuration *prometheus.HistogramVec
}

// NewWithRegistry registers every collector on reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		AvailabilityLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "venue_availability_lookups_total",
				Help: "Total number of venue availability lookups",
			},
			[]string{"outcome"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation attempts",
			},
			[]string{"outcome"},
		),
		CancellationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_cancellations_total",
				Help: "Total number of event cancellations",
			},
			[]string{"outcome"},
		),
		VenueRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "venue_request_duration_seconds",
				Help:    "Latency of calls to the venue service in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation", "outcome"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AvailabilityLookupsTotal,
		m.ReservationsTotal,
		m.CancellationsTotal,
		m.VenueRequestDuration,
	)

	return m
}

// The helpers below are no-ops on a nil *Metrics so collaborators can run without one.

func (m *Metrics) ObserveHTTPRequest(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordAvailability(outcome string) {
	if m == nil {
		return
	}
	m.AvailabilityLookupsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordReservation(outcome string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordCancellation(outcome string) {
	if m == nil {
		return
	}
	m.CancellationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveVenueRequest(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.VenueRequestDuration.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
}
