package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/capsule-hotel/internal/domain"
	"github.com/robertarktes/capsule-hotel/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditLogger records every domain mutation as a document, independent of
// the relational store.
type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID        uuid.UUID `bson:"_id"`
	Action    string    `bson:"action"`
	Timestamp time.Time `bson:"timestamp"`
	Data      bson.M    `bson:"data"`
}

func (a *AuditLogger) LogEvent(ctx context.Context, action string, data map[string]interface{}) error {
	log := AuditLog{
		ID:        uuid.New(),
		Action:    action,
		Timestamp: time.Now(),
		Data:      bson.M(data),
	}
	_, err := a.coll.InsertOne(ctx, log)
	if err != nil {
		a.logger.Error("failed to insert audit log", err)
		return err
	}
	return nil
}

func (a *AuditLogger) LogGuestRegistered(ctx context.Context, g *domain.Guest) error {
	return a.LogEvent(ctx, "guest.registered", map[string]interface{}{
		"guest_id": g.ID,
		"name":     g.Name,
	})
}

func (a *AuditLogger) LogCapsuleAdded(ctx context.Context, c *domain.Capsule) error {
	return a.LogEvent(ctx, "capsule.added", map[string]interface{}{
		"capsule_id":      c.ID,
		"type":            string(c.Type),
		"price_per_night": c.PricePerNight,
	})
}

func (a *AuditLogger) LogBookingCreated(ctx context.Context, b *domain.Booking) error {
	return a.LogEvent(ctx, "booking.created", map[string]interface{}{
		"booking_id": b.ID,
		"guest_id":   b.Guest.ID,
		"capsule_id": b.Capsule.ID,
		"start_date": b.StartDate.Format(domain.DateFormat),
		"end_date":   b.EndDate.Format(domain.DateFormat),
		"total":      b.Total(),
	})
}

func (a *AuditLogger) LogBookingPaid(ctx context.Context, b *domain.Booking) error {
	return a.LogEvent(ctx, "booking.paid", map[string]interface{}{
		"booking_id": b.ID,
		"total":      b.Total(),
	})
}

func (a *AuditLogger) LogCheckOut(ctx context.Context, b *domain.Booking) error {
	return a.LogEvent(ctx, "booking.checked_out", map[string]interface{}{
		"booking_id": b.ID,
		"capsule_id": b.Capsule.ID,
	})
}
