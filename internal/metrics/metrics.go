package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking outcomes.
const (
	OutcomeBooked         = "booked"
	OutcomeConflict       = "conflict"
	OutcomeInvalidSeat    = "invalid_seat"
	OutcomeFlightNotFound = "flight_not_found"
	OutcomeEmpty          = "empty"
	OutcomeRateLimited    = "rate_limited"
	OutcomeError          = "error"
)

var (
	bookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airport_bookings_total",
		Help: "Booking attempts by outcome",
	}, []string{"outcome"})

	ticketsSold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airport_tickets_sold_total",
		Help: "Tickets persisted by committed bookings",
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "airport_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func ObserveBooking(outcome string, tickets int) {
	bookingsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeBooked {
		ticketsSold.Add(float64(tickets))
	}
}

func ObserveHTTP(method, route string, status int, d time.Duration) {
	httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
