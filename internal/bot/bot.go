package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robertarktes/capsule-hotel/internal/domain"
	"github.com/robertarktes/capsule-hotel/internal/observability"
	"github.com/robertarktes/capsule-hotel/internal/service"
)

const helpText = `Capsule hotel commands:
/capsules - list all capsules
/available [YYYY-MM-DD] - capsules free on a date
/register <name>;<passport>;<phone> - register a guest
/book <guest_id> <capsule_id> <start> <end> - create a booking
/pay <booking_id> - mark a booking paid
/checkout <booking_id> - check a guest out
/stats - total booked per guest
/history - last bookings`

// Bot serves the hotel over Telegram commands.
type Bot struct {
	api    *tgbotapi.BotAPI
	svc    *service.Service
	logger observability.Logger
}

func New(token string, svc *service.Service, logger observability.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Bot{api: api, svc: svc, logger: logger}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.logger.WithField("bot", b.api.Self.UserName).Info("telegram bot started")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.reply(update.Message, b.Handle(ctx, update.Message.Command(), update.Message.CommandArguments()))
		}
	}
}

// Handle executes one command and returns the rendered response. Split
// out from the update loop so it can be tested without an API session.
func (b *Bot) Handle(ctx context.Context, command, args string) string {
	switch command {
	case "start", "help":
		return helpText
	case "capsules":
		return b.listCapsules()
	case "available":
		return b.available(args)
	case "register":
		return b.register(ctx, args)
	case "book":
		return b.book(ctx, args)
	case "pay":
		return b.pay(ctx, args)
	case "checkout":
		return b.checkout(ctx, args)
	case "stats":
		return b.stats(ctx)
	case "history", "recent":
		return b.history()
	default:
		return "Unknown command. Send /help for the list."
	}
}

func (b *Bot) listCapsules() string {
	capsules := b.svc.Capsules()
	if len(capsules) == 0 {
		return "No capsules yet."
	}

	var sb strings.Builder
	sb.WriteString("All capsules:\n")
	for _, c := range capsules {
		fmt.Fprintf(&sb, "%s\n", c)
	}
	return sb.String()
}

func (b *Bot) available(args string) string {
	asOf := domain.Today()
	if s := strings.TrimSpace(args); s != "" {
		parsed, err := domain.ParseDate(s)
		if err != nil {
			return "Invalid date, expected YYYY-MM-DD."
		}
		asOf = parsed
	}

	capsules := b.svc.AvailableCapsules(asOf)
	if len(capsules) == 0 {
		return fmt.Sprintf("No capsules available on %s.", asOf.Format(domain.DateFormat))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Available on %s:\n", asOf.Format(domain.DateFormat))
	for _, c := range capsules {
		fmt.Fprintf(&sb, "%s\n", c)
	}
	return sb.String()
}

func (b *Bot) register(ctx context.Context, args string) string {
	parts := strings.Split(args, ";")
	if len(parts) != 3 {
		return "Usage: /register <name>;<passport>;<phone>"
	}

	g, err := b.svc.RegisterGuest(ctx, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
	if err != nil {
		return "Error: " + err.Error()
	}
	return fmt.Sprintf("Registered: %s", g)
}

func (b *Bot) book(ctx context.Context, args string) string {
	fields := strings.Fields(args)
	if len(fields) != 4 {
		return "Usage: /book <guest_id> <capsule_id> <YYYY-MM-DD> <YYYY-MM-DD>"
	}

	guestID, err1 := strconv.Atoi(fields[0])
	capsuleID, err2 := strconv.Atoi(fields[1])
	start, err3 := domain.ParseDate(fields[2])
	end, err4 := domain.ParseDate(fields[3])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return "Usage: /book <guest_id> <capsule_id> <YYYY-MM-DD> <YYYY-MM-DD>"
	}

	booking, err := b.svc.CreateBooking(ctx, guestID, capsuleID, start, end)
	if err != nil {
		return "Error: " + err.Error()
	}
	return fmt.Sprintf("Booked: %s\nTotal: %.2f", booking, booking.Total())
}

func (b *Bot) pay(ctx context.Context, args string) string {
	id, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return "Usage: /pay <booking_id>"
	}

	booking, err := b.svc.MarkPaid(ctx, id)
	if err != nil {
		return "Error: " + err.Error()
	}
	return fmt.Sprintf("Booking %d paid, total %.2f.", booking.ID, booking.Total())
}

func (b *Bot) checkout(ctx context.Context, args string) string {
	id, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return "Usage: /checkout <booking_id>"
	}

	if err := b.svc.CheckOut(ctx, id); err != nil {
		return "Error: " + err.Error()
	}
	return fmt.Sprintf("Booking %d checked out, capsule is free.", id)
}

func (b *Bot) stats(ctx context.Context) string {
	stats := b.svc.GuestStatistics(ctx)
	if len(stats) == 0 {
		return "No bookings yet."
	}

	var sb strings.Builder
	sb.WriteString("Total booked per guest:\n")
	for name, total := range stats {
		fmt.Fprintf(&sb, "%s: %.2f\n", name, total)
	}
	return sb.String()
}

func (b *Bot) history() string {
	recent := b.svc.RecentBookings(0)
	if len(recent) == 0 {
		return "No bookings yet."
	}

	var sb strings.Builder
	sb.WriteString("Recent bookings:\n")
	for _, booking := range recent {
		fmt.Fprintf(&sb, "%s\n", booking)
	}
	return sb.String()
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := b.api.Send(out); err != nil {
		b.logger.WithField("chat_id", msg.Chat.ID).Error("send reply: ", err)
	}
}
