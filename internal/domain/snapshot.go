package domain

import (
	"sort"
	"time"
)

// Snapshot is the persistence view of the aggregate: plain records with
// foreign keys instead of shared pointers.
type Snapshot struct {
	Guests   []GuestRecord
	Capsules []CapsuleRecord
	Bookings []BookingRecord
}

type GuestRecord struct {
	ID           int
	Name         string
	Passport     string
	Phone        string
	DiscountRate float64
}

type CapsuleRecord struct {
	ID            int
	Type          CapsuleType
	PricePerNight float64
}

type BookingRecord struct {
	ID        int
	GuestID   int
	CapsuleID int
	StartDate time.Time
	EndDate   time.Time
	Paid      bool
}

// Snapshot exports the current state for persistence.
func (h *Hotel) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	var snap Snapshot
	for _, g := range h.guests {
		snap.Guests = append(snap.Guests, GuestRecord{
			ID: g.ID, Name: g.Name, Passport: g.Passport, Phone: g.Phone, DiscountRate: g.DiscountRate,
		})
	}
	for _, c := range h.capsules {
		snap.Capsules = append(snap.Capsules, CapsuleRecord{
			ID: c.ID, Type: c.Type, PricePerNight: c.PricePerNight,
		})
	}
	for _, b := range h.bookings {
		snap.Bookings = append(snap.Bookings, BookingRecord{
			ID: b.ID, GuestID: b.Guest.ID, CapsuleID: b.Capsule.ID,
			StartDate: b.StartDate, EndDate: b.EndDate, Paid: b.IsPaid(),
		})
	}
	return snap
}

// RestoreHotel rebuilds an aggregate from persisted records. Id counters
// resume above the maximum restored id per entity kind, the used-passport
// set is reseeded from the guests, capsules are re-occupied by their
// bookings, and the history buffer is reseeded from the surviving bookings
// in creation order.
func RestoreHotel(name string, snap Snapshot) (*Hotel, error) {
	h := NewHotel(name)

	for _, r := range snap.Guests {
		g := &Guest{ID: r.ID, Name: r.Name, Passport: r.Passport, Phone: r.Phone, DiscountRate: r.DiscountRate}
		h.guests[g.ID] = g
		h.usedPassports[g.Passport] = struct{}{}
		if g.ID >= h.nextGuestID {
			h.nextGuestID = g.ID + 1
		}
	}
	for _, r := range snap.Capsules {
		c := &Capsule{ID: r.ID, Type: r.Type, PricePerNight: r.PricePerNight, available: true}
		h.capsules[c.ID] = c
		if c.ID >= h.nextCapsuleID {
			h.nextCapsuleID = c.ID + 1
		}
	}

	bookings := make([]BookingRecord, len(snap.Bookings))
	copy(bookings, snap.Bookings)
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })

	for _, r := range bookings {
		g, ok := h.guests[r.GuestID]
		if !ok {
			return nil, ErrGuestNotFound
		}
		c, ok := h.capsules[r.CapsuleID]
		if !ok {
			return nil, ErrCapsuleNotFound
		}
		b := &Booking{
			ID: r.ID, Guest: g, Capsule: c,
			StartDate: Day(r.StartDate), EndDate: Day(r.EndDate),
			paid: r.Paid,
		}
		if err := c.Book(b); err != nil {
			return nil, err
		}
		g.AddBooking(b)
		h.bookings[b.ID] = b
		h.history.Append(b)
		if b.ID >= h.nextBookingID {
			h.nextBookingID = b.ID + 1
		}
	}
	return h, nil
}
