package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/capsule-hotel/internal/domain"
	"github.com/robertarktes/capsule-hotel/internal/observability"
)

// Store is the write-behind persistence sink.
type Store interface {
	SaveGuest(ctx context.Context, rec domain.GuestRecord) error
	SaveCapsule(ctx context.Context, rec domain.CapsuleRecord) error
	SaveBooking(ctx context.Context, rec domain.BookingRecord) error
	DeleteBooking(ctx context.Context, id int) error
}

// EventPublisher emits lifecycle events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, key string, msg amqp.Publishing) error
}

// Auditor records mutations to the audit trail.
type Auditor interface {
	LogGuestRegistered(ctx context.Context, g *domain.Guest) error
	LogCapsuleAdded(ctx context.Context, c *domain.Capsule) error
	LogBookingCreated(ctx context.Context, b *domain.Booking) error
	LogBookingPaid(ctx context.Context, b *domain.Booking) error
	LogCheckOut(ctx context.Context, b *domain.Booking) error
}

// StatsCache caches the guest-statistics report.
type StatsCache interface {
	GetStatistics(ctx context.Context) (map[string]float64, error)
	SetStatistics(ctx context.Context, stats map[string]float64, ttl time.Duration) error
	InvalidateStatistics(ctx context.Context) error
}

const statsTTL = 30 * time.Second

// Service fronts the Hotel aggregate for every adapter. The aggregate
// validates and mutates first; persistence, events, audit and cache
// invalidation are side effects triggered after a successful mutation.
// A failed side effect is logged and counted, never rolled back into the
// domain result. Every collaborator may be nil, which disables it; the
// console front-end runs with all of them off.
type Service struct {
	hotel  *domain.Hotel
	store  Store
	events EventPublisher
	audit  Auditor
	stats  StatsCache
	logger observability.Logger
}

func New(hotel *domain.Hotel, store Store, events EventPublisher, audit Auditor, stats StatsCache, logger observability.Logger) *Service {
	return &Service{
		hotel:  hotel,
		store:  store,
		events: events,
		audit:  audit,
		stats:  stats,
		logger: logger,
	}
}

func (s *Service) RegisterGuest(ctx context.Context, name, passport, phone string) (*domain.Guest, error) {
	g, err := s.hotel.RegisterGuest(name, passport, phone)
	if err != nil {
		return nil, err
	}
	observability.GuestsRegistered.Inc()

	s.sideEffect(ctx, "postgres", func() error { return s.saveGuest(ctx, g) })
	s.publish(ctx, "guest.registered", map[string]interface{}{"guest_id": g.ID, "name": g.Name})
	if s.audit != nil {
		s.sideEffect(ctx, "mongo", func() error { return s.audit.LogGuestRegistered(ctx, g) })
	}

	s.logger.WithFields(map[string]interface{}{"guest_id": g.ID, "name": g.Name}).Info("guest registered")
	return g, nil
}

func (s *Service) GrantDiscount(ctx context.Context, guestID int, rate float64) (*domain.Guest, error) {
	g, err := s.hotel.GrantDiscount(guestID, rate)
	if err != nil {
		return nil, err
	}

	s.sideEffect(ctx, "postgres", func() error { return s.saveGuest(ctx, g) })
	s.invalidateStats(ctx)

	s.logger.WithFields(map[string]interface{}{"guest_id": g.ID, "rate": rate}).Info("discount granted")
	return g, nil
}

func (s *Service) AddCapsule(ctx context.Context, t domain.CapsuleType) (*domain.Capsule, error) {
	c := s.hotel.AddCapsule(t)

	s.sideEffect(ctx, "postgres", func() error {
		if s.store == nil {
			return nil
		}
		return s.store.SaveCapsule(ctx, domain.CapsuleRecord{ID: c.ID, Type: c.Type, PricePerNight: c.PricePerNight})
	})
	s.publish(ctx, "capsule.added", map[string]interface{}{"capsule_id": c.ID, "type": string(c.Type)})
	if s.audit != nil {
		s.sideEffect(ctx, "mongo", func() error { return s.audit.LogCapsuleAdded(ctx, c) })
	}

	s.logger.WithFields(map[string]interface{}{"capsule_id": c.ID, "type": string(c.Type)}).Info("capsule added")
	return c, nil
}

func (s *Service) CreateBooking(ctx context.Context, guestID, capsuleID int, start, end time.Time) (*domain.Booking, error) {
	b, err := s.hotel.CreateBooking(guestID, capsuleID, start, end)
	if err != nil {
		return nil, err
	}
	observability.BookingsCreated.Inc()
	observability.ActiveBookings.Inc()

	s.sideEffect(ctx, "postgres", func() error { return s.saveBooking(ctx, b) })
	s.publish(ctx, "booking.created", map[string]interface{}{
		"booking_id": b.ID,
		"guest_id":   b.Guest.ID,
		"capsule_id": b.Capsule.ID,
		"start_date": b.StartDate.Format(domain.DateFormat),
		"end_date":   b.EndDate.Format(domain.DateFormat),
		"total":      b.Total(),
	})
	if s.audit != nil {
		s.sideEffect(ctx, "mongo", func() error { return s.audit.LogBookingCreated(ctx, b) })
	}
	s.invalidateStats(ctx)

	s.logger.WithFields(map[string]interface{}{"booking_id": b.ID, "guest_id": guestID, "capsule_id": capsuleID}).Info("booking created")
	return b, nil
}

func (s *Service) MarkPaid(ctx context.Context, bookingID int) (*domain.Booking, error) {
	b, err := s.hotel.MarkPaid(bookingID)
	if err != nil {
		return nil, err
	}
	observability.BookingsPaid.Inc()

	s.sideEffect(ctx, "postgres", func() error { return s.saveBooking(ctx, b) })
	s.publish(ctx, "booking.paid", map[string]interface{}{"booking_id": b.ID, "total": b.Total()})
	if s.audit != nil {
		s.sideEffect(ctx, "mongo", func() error { return s.audit.LogBookingPaid(ctx, b) })
	}

	s.logger.WithField("booking_id", b.ID).Info("booking paid")
	return b, nil
}

func (s *Service) CheckOut(ctx context.Context, bookingID int) error {
	b, err := s.hotel.CheckOut(bookingID)
	if err != nil {
		return err
	}
	observability.CheckOuts.Inc()
	observability.ActiveBookings.Dec()

	s.sideEffect(ctx, "postgres", func() error {
		if s.store == nil {
			return nil
		}
		return s.store.DeleteBooking(ctx, b.ID)
	})
	s.publish(ctx, "booking.checked_out", map[string]interface{}{"booking_id": b.ID, "capsule_id": b.Capsule.ID})
	if s.audit != nil {
		s.sideEffect(ctx, "mongo", func() error { return s.audit.LogCheckOut(ctx, b) })
	}
	s.invalidateStats(ctx)

	s.logger.WithField("booking_id", b.ID).Info("checked out")
	return nil
}

func (s *Service) AvailableCapsules(asOf time.Time) []*domain.Capsule {
	return s.hotel.AvailableCapsules(asOf)
}

// GuestStatistics serves the cached report when the cache holds one and
// recomputes otherwise.
func (s *Service) GuestStatistics(ctx context.Context) map[string]float64 {
	if s.stats != nil {
		cached, err := s.stats.GetStatistics(ctx)
		if err != nil {
			s.logger.Warn("stats cache read failed: ", err)
		}
		if cached != nil {
			return cached
		}
	}

	stats := s.hotel.GuestStatistics()
	if s.stats != nil {
		if err := s.stats.SetStatistics(ctx, stats, statsTTL); err != nil {
			s.logger.Warn("stats cache write failed: ", err)
		}
	}
	return stats
}

// RecentBookings returns the last n created bookings; n defaults to 5.
func (s *Service) RecentBookings(n int) []*domain.Booking {
	if n <= 0 {
		n = 5
	}
	return s.hotel.RecentBookings(n)
}

func (s *Service) Guest(id int) (*domain.Guest, error)     { return s.hotel.Guest(id) }
func (s *Service) Capsule(id int) (*domain.Capsule, error) { return s.hotel.Capsule(id) }
func (s *Service) Booking(id int) (*domain.Booking, error) { return s.hotel.Booking(id) }
func (s *Service) Guests() []*domain.Guest                 { return s.hotel.Guests() }
func (s *Service) Capsules() []*domain.Capsule             { return s.hotel.Capsules() }
func (s *Service) Bookings() []*domain.Booking             { return s.hotel.Bookings() }
func (s *Service) Summary() string                         { return s.hotel.Summary() }
func (s *Service) HotelName() string                       { return s.hotel.Name }

// SeedSampleData loads the demo inventory and guests into an empty hotel.
func (s *Service) SeedSampleData(ctx context.Context) error {
	if len(s.hotel.Capsules()) > 0 || len(s.hotel.Guests()) > 0 {
		return nil
	}

	for _, t := range []domain.CapsuleType{
		domain.CapsuleStandard, domain.CapsuleStandard,
		domain.CapsuleLux, domain.CapsuleLux,
		domain.CapsulePremium,
	} {
		if _, err := s.AddCapsule(ctx, t); err != nil {
			return err
		}
	}
	if _, err := s.RegisterGuest(ctx, "Ivan Ivanov", "1234567890", "+79123456789"); err != nil {
		return err
	}
	if _, err := s.RegisterGuest(ctx, "Petr Petrov", "0987654321", "+79098765432"); err != nil {
		return err
	}
	return nil
}

func (s *Service) saveGuest(ctx context.Context, g *domain.Guest) error {
	if s.store == nil {
		return nil
	}
	return s.store.SaveGuest(ctx, domain.GuestRecord{
		ID: g.ID, Name: g.Name, Passport: g.Passport, Phone: g.Phone, DiscountRate: g.DiscountRate,
	})
}

func (s *Service) saveBooking(ctx context.Context, b *domain.Booking) error {
	if s.store == nil {
		return nil
	}
	return s.store.SaveBooking(ctx, domain.BookingRecord{
		ID: b.ID, GuestID: b.Guest.ID, CapsuleID: b.Capsule.ID,
		StartDate: b.StartDate, EndDate: b.EndDate, Paid: b.IsPaid(),
	})
}

func (s *Service) publish(ctx context.Context, key string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal event payload: ", err)
		return
	}
	msg := amqp.Publishing{
		MessageId:   uuid.New().String(),
		ContentType: "application/json",
		Body:        body,
	}
	s.sideEffect(ctx, "rabbit", func() error { return s.events.Publish(ctx, key, msg) })
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	s.sideEffect(ctx, "redis", func() error { return s.stats.InvalidateStatistics(ctx) })
}

func (s *Service) sideEffect(ctx context.Context, sink string, fn func() error) {
	if err := fn(); err != nil {
		observability.PersistFailures.WithLabelValues(sink).Inc()
		s.logger.WithField("sink", sink).Error("side effect failed: ", err)
	}
}
