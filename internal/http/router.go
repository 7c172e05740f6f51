package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertarktes/capsule-hotel/internal/observability"
	"github.com/robertarktes/capsule-hotel/internal/ratelimit"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *ratelimit.RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(RateLimitMiddleware(rl))

	r.Post("/v1/guests", h.RegisterGuest)
	r.Get("/v1/guests", h.ListGuests)
	r.Get("/v1/guests/{id}", h.GetGuest)
	r.Post("/v1/guests/{id}/discount", h.GrantDiscount)

	r.Post("/v1/capsules", h.AddCapsule)
	r.Get("/v1/capsules", h.ListCapsules)
	r.Get("/v1/capsules/available", h.AvailableCapsules)

	r.Post("/v1/bookings", h.CreateBooking)
	r.Get("/v1/bookings", h.ListBookings)
	r.Get("/v1/bookings/recent", h.RecentBookings)
	r.Post("/v1/bookings/{id}/payment", h.MarkPaid)
	r.Delete("/v1/bookings/{id}", h.CheckOut)

	r.Get("/v1/stats/guests", h.GuestStatistics)
	r.Get("/v1/healthz", h.Healthz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
