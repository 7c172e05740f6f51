package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Guest is an identity and contact record. Guests are never deleted: the
// record survives even after all of its bookings are cancelled.
type Guest struct {
	ID       int
	Name     string
	Passport string
	Phone    string

	// DiscountRate marks a VIP guest; the rate is subtracted from every
	// booking total. Zero for regular guests.
	DiscountRate float64

	bookings []*Booking
}

func NewGuest(id int, name, passport, phone string) *Guest {
	return &Guest{
		ID:       id,
		Name:     NormalizeName(name),
		Passport: passport,
		Phone:    phone,
	}
}

// NormalizeName capitalizes every whitespace-separated word.
func NormalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// EqualsByPassport reports whether two guests carry the same passport.
func (g *Guest) EqualsByPassport(other *Guest) bool {
	return other != nil && g.Passport == other.Passport
}

func (g *Guest) AddBooking(b *Booking) {
	g.bookings = append(g.bookings, b)
}

// RemoveBooking detaches a booking from the guest's list. Removing a
// booking that is not present is a no-op.
func (g *Guest) RemoveBooking(b *Booking) {
	for i, have := range g.bookings {
		if have == b {
			g.bookings = append(g.bookings[:i], g.bookings[i+1:]...)
			return
		}
	}
}

// Bookings returns the guest's bookings in insertion order.
func (g *Guest) Bookings() []*Booking {
	out := make([]*Booking, len(g.bookings))
	copy(out, g.bookings)
	return out
}

// ActiveBookings returns the bookings whose end date is on or after asOf,
// in insertion order. A zero asOf means today.
func (g *Guest) ActiveBookings(asOf time.Time) []*Booking {
	if asOf.IsZero() {
		asOf = Today()
	}
	asOf = Day(asOf)

	var active []*Booking
	for _, b := range g.bookings {
		if !b.EndDate.Before(asOf) {
			active = append(active, b)
		}
	}
	return active
}

func (g *Guest) String() string {
	return fmt.Sprintf("Guest #%d: %s, passport %s", g.ID, g.Name, g.Passport)
}
