package domain

import (
	"fmt"
	"time"
)

// MaxStayNights is the longest span a single booking may cover.
const MaxStayNights = 30

// Booking links one guest and one capsule over a date range. Both
// references are shared with the hotel's collections, not owned.
type Booking struct {
	ID        int
	Guest     *Guest
	Capsule   *Capsule
	StartDate time.Time
	EndDate   time.Time

	paid bool
}

// validateStay checks a date range against the booking invariants. The
// order matters: range shape first, then past check, then span.
func validateStay(start, end time.Time) error {
	if !end.After(start) {
		return ErrDateRangeInvalid
	}
	if start.Before(Today()) {
		return ErrDateInPast
	}
	if NightsBetween(start, end) > MaxStayNights {
		return ErrDurationTooLong
	}
	return nil
}

func (b *Booking) Nights() int {
	return NightsBetween(b.StartDate, b.EndDate)
}

// Total returns nights times the capsule's nightly price, less the guest's
// discount.
func (b *Booking) Total() float64 {
	return float64(b.Nights()) * b.Capsule.PricePerNight * (1 - b.Guest.DiscountRate)
}

func (b *Booking) IsPaid() bool {
	return b.paid
}

func (b *Booking) MarkPaid() error {
	if b.paid {
		return ErrAlreadyPaid
	}
	b.paid = true
	return nil
}

// Cancel releases the capsule and detaches the booking from its guest.
// Paid bookings cannot be cancelled.
func (b *Booking) Cancel() error {
	if b.paid {
		return ErrPaymentLocked
	}
	b.Capsule.Release()
	b.Guest.RemoveBooking(b)
	return nil
}

func (b *Booking) String() string {
	status := "unpaid"
	if b.paid {
		status = "paid"
	}
	return fmt.Sprintf("Booking #%d: %s in capsule #%d from %s to %s, %s",
		b.ID, b.Guest.Name, b.Capsule.ID,
		b.StartDate.Format(DateFormat), b.EndDate.Format(DateFormat), status)
}
