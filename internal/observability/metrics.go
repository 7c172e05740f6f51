package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capsule_hotel_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	GuestsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capsule_hotel_guests_registered_total",
			Help: "Total guests registered",
		},
	)

	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capsule_hotel_bookings_created_total",
			Help: "Total bookings created",
		},
	)

	BookingsPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capsule_hotel_bookings_paid_total",
			Help: "Total bookings marked paid",
		},
	)

	CheckOuts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capsule_hotel_checkouts_total",
			Help: "Total completed checkouts",
		},
	)

	PersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capsule_hotel_persist_failures_total",
			Help: "Side-effect failures after a successful domain mutation",
		},
		[]string{"sink"},
	)

	ActiveBookings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "capsule_hotel_active_bookings",
			Help: "Bookings currently in the active ledger",
		},
	)

	DBOpDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "capsule_hotel_db_op_seconds",
			Help:    "Duration of Postgres operations",
			Buckets: prometheus.DefBuckets,
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capsule_hotel_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)
)
