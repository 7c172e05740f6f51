package domain

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Hotel is the aggregate owning all guests, capsules and bookings. It is
// the sole mutator of domain state; its operations either fully apply or
// leave every entity untouched.
//
// A single mutex serializes all operations. The multi-step mutations
// (CreateBooking touches capsule, guest, ledger and history) are not
// otherwise atomic, and the concurrent front-ends would tear them.
type Hotel struct {
	mu sync.Mutex

	Name string

	guests   map[int]*Guest
	capsules map[int]*Capsule
	bookings map[int]*Booking

	// usedPassports is never rolled back: a passport registers once per
	// process lifetime, even if the guest later stops booking.
	usedPassports map[string]struct{}

	nextGuestID   int
	nextCapsuleID int
	nextBookingID int

	history *History
}

func NewHotel(name string) *Hotel {
	return &Hotel{
		Name:          name,
		guests:        make(map[int]*Guest),
		capsules:      make(map[int]*Capsule),
		bookings:      make(map[int]*Booking),
		usedPassports: make(map[string]struct{}),
		nextGuestID:   1,
		nextCapsuleID: 1,
		nextBookingID: 1,
		history:       NewHistory(HistoryCapacity),
	}
}

// RegisterGuest stores a new guest with a normalized name. The passport
// must not have been registered before.
func (h *Hotel) RegisterGuest(name, passport, phone string) (*Guest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, used := h.usedPassports[passport]; used {
		return nil, ErrDuplicatePassport
	}

	g := NewGuest(h.nextGuestID, name, passport, phone)
	h.guests[g.ID] = g
	h.usedPassports[passport] = struct{}{}
	h.nextGuestID++
	return g, nil
}

// GrantDiscount marks a guest as VIP with the given rate, 0 <= rate < 1.
func (h *Hotel) GrantDiscount(guestID int, rate float64) (*Guest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rate < 0 || rate >= 1 {
		return nil, ErrInvalidDiscount
	}
	g, ok := h.guests[guestID]
	if !ok {
		return nil, ErrGuestNotFound
	}
	g.DiscountRate = rate
	return g, nil
}

// AddCapsule creates a capsule of the given type with a freshly drawn
// nightly price.
func (h *Hotel) AddCapsule(t CapsuleType) *Capsule {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := NewCapsule(h.nextCapsuleID, t)
	h.capsules[c.ID] = c
	h.nextCapsuleID++
	return c
}

// CreateBooking validates the references and the date range, then books
// the capsule, attaches the booking to the guest, stores it in the ledger
// and records it in the history buffer. Validation fully precedes any
// mutation.
func (h *Hotel) CreateBooking(guestID, capsuleID int, start, end time.Time) (*Booking, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.guests[guestID]
	if !ok {
		return nil, ErrGuestNotFound
	}
	c, ok := h.capsules[capsuleID]
	if !ok {
		return nil, ErrCapsuleNotFound
	}

	start, end = Day(start), Day(end)
	if err := validateStay(start, end); err != nil {
		return nil, err
	}

	b := &Booking{
		ID:        h.nextBookingID,
		Guest:     g,
		Capsule:   c,
		StartDate: start,
		EndDate:   end,
	}
	if err := c.Book(b); err != nil {
		return nil, err
	}
	g.AddBooking(b)
	h.bookings[b.ID] = b
	h.history.Append(b)
	h.nextBookingID++
	return b, nil
}

// MarkPaid flips a booking to paid. Paid is terminal: a second call fails.
func (h *Hotel) MarkPaid(bookingID int) (*Booking, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if err := b.MarkPaid(); err != nil {
		return nil, err
	}
	return b, nil
}

// CheckOut cancels a booking and removes it from the active ledger. The
// cancel fails on a paid booking, and that error surfaces to the caller.
// The entity may still be referenced by the history buffer afterwards.
func (h *Hotel) CheckOut(bookingID int) (*Booking, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if err := b.Cancel(); err != nil {
		return nil, err
	}
	delete(h.bookings, bookingID)
	return b, nil
}

// AvailableCapsules returns the capsules free on the given date, in id
// order. A zero asOf means today.
func (h *Hotel) AvailableCapsules(asOf time.Time) []*Capsule {
	h.mu.Lock()
	defer h.mu.Unlock()

	if asOf.IsZero() {
		asOf = Today()
	}
	var out []*Capsule
	for _, c := range h.capsules {
		if c.AvailableOn(asOf) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GuestStatistics sums the totals of all active bookings per guest display
// name. Keying by name merges same-named guests; that matches the historic
// reporting behavior.
func (h *Hotel) GuestStatistics() map[string]float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats := make(map[string]float64)
	for _, b := range h.bookings {
		stats[b.Guest.Name] += b.Total()
	}
	return stats
}

// RecentBookings returns the last n created bookings, oldest first.
func (h *Hotel) RecentBookings(n int) []*Booking {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.history.Recent(n)
}

func (h *Hotel) Guest(id int) (*Guest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	g, ok := h.guests[id]
	if !ok {
		return nil, ErrGuestNotFound
	}
	return g, nil
}

func (h *Hotel) Capsule(id int) (*Capsule, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.capsules[id]
	if !ok {
		return nil, ErrCapsuleNotFound
	}
	return c, nil
}

func (h *Hotel) Booking(id int) (*Booking, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// Guests lists all guests in id order.
func (h *Hotel) Guests() []*Guest {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Guest, 0, len(h.guests))
	for _, g := range h.guests {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Capsules lists all capsules in id order.
func (h *Hotel) Capsules() []*Capsule {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Capsule, 0, len(h.capsules))
	for _, c := range h.capsules {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Bookings lists all active bookings in id order.
func (h *Hotel) Bookings() []*Booking {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Booking, 0, len(h.bookings))
	for _, b := range h.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (h *Hotel) Summary() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fmt.Sprintf("Hotel %q: %d guests, %d capsules, %d active bookings",
		h.Name, len(h.guests), len(h.capsules), len(h.bookings))
}
