package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// CapsuleType classifies a capsule and determines its base nightly price.
type CapsuleType string

const (
	CapsuleStandard CapsuleType = "Standard"
	CapsuleLux      CapsuleType = "Lux"
	CapsulePremium  CapsuleType = "Premium"
)

const (
	// defaultBasePrice is used when a capsule is added with a type that
	// has no configured base price. Unknown types are accepted, not
	// rejected.
	defaultBasePrice = 1000

	// priceJitter is the spread applied to the base price at creation.
	priceJitter = 0.10
)

var basePrices = map[CapsuleType]float64{
	CapsuleStandard: 1500,
	CapsuleLux:      2500,
	CapsulePremium:  3500,
}

// BasePrice returns the configured base nightly price for a capsule type.
func BasePrice(t CapsuleType) float64 {
	if p, ok := basePrices[t]; ok {
		return p
	}
	return defaultBasePrice
}

// Capsule is a single bookable unit. The nightly price is drawn once at
// creation and fixed for the capsule's lifetime. A capsule tracks at most
// one current booking; it holds no reservation calendar.
type Capsule struct {
	ID            int
	Type          CapsuleType
	PricePerNight float64

	available bool
	current   *Booking
}

func NewCapsule(id int, t CapsuleType) *Capsule {
	jitter := (rand.Float64()*2 - 1) * priceJitter
	return &Capsule{
		ID:            id,
		Type:          t,
		PricePerNight: BasePrice(t) * (1 + jitter),
		available:     true,
	}
}

func (c *Capsule) IsAvailable() bool {
	return c.available
}

// CurrentBooking returns the booking occupying the capsule, or nil.
func (c *Capsule) CurrentBooking() *Booking {
	return c.current
}

// Book marks the capsule occupied by the given booking.
func (c *Capsule) Book(b *Booking) error {
	if !c.available {
		return ErrCapsuleUnavailable
	}
	c.available = false
	c.current = b
	return nil
}

// Release frees the capsule. Releasing a free capsule is a no-op.
func (c *Capsule) Release() {
	c.available = true
	c.current = nil
}

// AvailableOn reports whether the capsule is free on the given date: it
// has no current booking, or the date falls outside the current booking's
// inclusive [start, end] window.
func (c *Capsule) AvailableOn(date time.Time) bool {
	if c.current == nil {
		return true
	}
	date = Day(date)
	return date.Before(c.current.StartDate) || date.After(c.current.EndDate)
}

// CompareByPrice orders capsules by nightly price, cheapest first.
func CompareByPrice(a, b *Capsule) int {
	switch {
	case a.PricePerNight < b.PricePerNight:
		return -1
	case a.PricePerNight > b.PricePerNight:
		return 1
	default:
		return 0
	}
}

func (c *Capsule) String() string {
	status := "available"
	if !c.available {
		status = "occupied"
	}
	return fmt.Sprintf("Capsule #%d (%s), %s, price per night: %.2f", c.ID, c.Type, status, c.PricePerNight)
}
