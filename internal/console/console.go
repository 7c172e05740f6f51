package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robertarktes/capsule-hotel/internal/domain"
	"github.com/robertarktes/capsule-hotel/internal/service"
)

// Console is the interactive menu front-end. It reads commands from in
// and renders to out, so tests can drive it with buffers.
type Console struct {
	svc *service.Service
	in  *bufio.Scanner
	out io.Writer
}

func New(svc *service.Service, in io.Reader, out io.Writer) *Console {
	return &Console{svc: svc, in: bufio.NewScanner(in), out: out}
}

func (c *Console) Run(ctx context.Context) {
	fmt.Fprintf(c.out, "Welcome to the %q management system!\n", c.svc.HotelName())

	for {
		c.printMenu()
		choice, ok := c.prompt("Select an action: ")
		if !ok {
			return
		}

		var err error
		switch choice {
		case "1":
			c.listCapsules()
		case "2":
			err = c.showAvailable(ctx)
		case "3":
			err = c.registerGuest(ctx)
		case "4":
			err = c.createBooking(ctx)
		case "5":
			c.listBookings()
		case "6":
			err = c.checkOut(ctx)
		case "7":
			fmt.Fprintln(c.out, c.svc.Summary())
		case "8":
			err = c.markPaid(ctx)
		case "9":
			c.guestStatistics(ctx)
		case "10":
			c.recentBookings()
		case "0":
			fmt.Fprintln(c.out, "Goodbye!")
			return
		default:
			fmt.Fprintln(c.out, "Invalid choice, try again.")
		}
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
	}
}

func (c *Console) printMenu() {
	fmt.Fprintln(c.out, "\nCapsule hotel management menu:")
	fmt.Fprintln(c.out, "1. List all capsules")
	fmt.Fprintln(c.out, "2. Show available capsules")
	fmt.Fprintln(c.out, "3. Register a new guest")
	fmt.Fprintln(c.out, "4. Create a booking")
	fmt.Fprintln(c.out, "5. List all bookings")
	fmt.Fprintln(c.out, "6. Check out a guest (free the capsule)")
	fmt.Fprintln(c.out, "7. Show hotel summary")
	fmt.Fprintln(c.out, "8. Mark a booking as paid")
	fmt.Fprintln(c.out, "9. Show guest statistics")
	fmt.Fprintln(c.out, "10. Show recent bookings")
	fmt.Fprintln(c.out, "0. Exit")
}

func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) promptInt(label string) (int, error) {
	s, ok := c.prompt(label)
	if !ok {
		return 0, io.EOF
	}
	return strconv.Atoi(s)
}

func (c *Console) listCapsules() {
	fmt.Fprintln(c.out, "\nAll capsules:")
	for _, capsule := range c.svc.Capsules() {
		fmt.Fprintln(c.out, capsule)
	}
}

func (c *Console) showAvailable(_ context.Context) error {
	s, ok := c.prompt("Date (YYYY-MM-DD, empty for today): ")
	if !ok {
		return io.EOF
	}

	asOf := domain.Today()
	if s != "" {
		parsed, err := domain.ParseDate(s)
		if err != nil {
			return err
		}
		asOf = parsed
	}

	fmt.Fprintln(c.out, "\nAvailable capsules:")
	for _, capsule := range c.svc.AvailableCapsules(asOf) {
		fmt.Fprintln(c.out, capsule)
	}
	return nil
}

func (c *Console) registerGuest(ctx context.Context) error {
	fmt.Fprintln(c.out, "\nRegistering a new guest:")
	name, ok := c.prompt("Full name: ")
	if !ok {
		return io.EOF
	}
	passport, ok := c.prompt("Passport: ")
	if !ok {
		return io.EOF
	}
	phone, ok := c.prompt("Phone: ")
	if !ok {
		return io.EOF
	}

	g, err := c.svc.RegisterGuest(ctx, name, passport, phone)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Guest registered: %s\n", g)
	return nil
}

func (c *Console) createBooking(ctx context.Context) error {
	fmt.Fprintln(c.out, "\nCreating a booking:")

	fmt.Fprintln(c.out, "Guests:")
	for _, g := range c.svc.Guests() {
		fmt.Fprintln(c.out, g)
	}
	guestID, err := c.promptInt("Guest ID: ")
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Available capsules:")
	for _, capsule := range c.svc.AvailableCapsules(domain.Today()) {
		fmt.Fprintln(c.out, capsule)
	}
	capsuleID, err := c.promptInt("Capsule ID: ")
	if err != nil {
		return err
	}

	startStr, ok := c.prompt("Check-in date (YYYY-MM-DD): ")
	if !ok {
		return io.EOF
	}
	endStr, ok := c.prompt("Check-out date (YYYY-MM-DD): ")
	if !ok {
		return io.EOF
	}
	start, err := domain.ParseDate(startStr)
	if err != nil {
		return err
	}
	end, err := domain.ParseDate(endStr)
	if err != nil {
		return err
	}

	b, err := c.svc.CreateBooking(ctx, guestID, capsuleID, start, end)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Booking created: %s\n", b)
	fmt.Fprintf(c.out, "Total: %.2f\n", b.Total())
	return nil
}

func (c *Console) listBookings() {
	fmt.Fprintln(c.out, "\nAll active bookings:")
	for _, b := range c.svc.Bookings() {
		fmt.Fprintln(c.out, b)
	}
}

func (c *Console) checkOut(ctx context.Context) error {
	fmt.Fprintln(c.out, "\nChecking out a guest:")
	c.listBookings()

	id, err := c.promptInt("Booking ID to check out: ")
	if err != nil {
		return err
	}
	if err := c.svc.CheckOut(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Guest checked out, capsule is free.")
	return nil
}

func (c *Console) markPaid(ctx context.Context) error {
	id, err := c.promptInt("Booking ID to mark paid: ")
	if err != nil {
		return err
	}
	b, err := c.svc.MarkPaid(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Booking %d paid, total %.2f\n", b.ID, b.Total())
	return nil
}

func (c *Console) guestStatistics(ctx context.Context) {
	fmt.Fprintln(c.out, "\nGuest statistics (total booked per guest):")
	for name, total := range c.svc.GuestStatistics(ctx) {
		fmt.Fprintf(c.out, "%s: %.2f\n", name, total)
	}
}

func (c *Console) recentBookings() {
	fmt.Fprintln(c.out, "\nRecent bookings:")
	for _, b := range c.svc.RecentBookings(0) {
		fmt.Fprintln(c.out, b)
	}
}
