package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robertarktes/capsule-hotel/internal/domain"
	"github.com/robertarktes/capsule-hotel/internal/observability"
	"golang.org/x/sync/errgroup"
)

const uniqueViolationCode = "23505"

// Repository persists the hotel's entities. It is a write-behind store:
// the in-memory aggregate validates and mutates first, the repository
// records the outcome.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Migrate creates the schema when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS guests (
			id INT PRIMARY KEY,
			name TEXT NOT NULL,
			passport TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL,
			discount_rate DOUBLE PRECISION NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS capsules (
			id INT PRIMARY KEY,
			type TEXT NOT NULL,
			price_per_night DOUBLE PRECISION NOT NULL
		);
		CREATE TABLE IF NOT EXISTS bookings (
			id INT PRIMARY KEY,
			guest_id INT NOT NULL REFERENCES guests (id),
			capsule_id INT NOT NULL REFERENCES capsules (id),
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			paid BOOLEAN NOT NULL DEFAULT FALSE
		);
	`)
	return err
}

func (r *Repository) SaveGuest(ctx context.Context, rec domain.GuestRecord) error {
	defer observe(time.Now())

	_, err := r.pool.Exec(ctx, `
		INSERT INTO guests (id, name, passport, phone, discount_rate)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, phone = EXCLUDED.phone, discount_rate = EXCLUDED.discount_rate
	`, rec.ID, rec.Name, rec.Passport, rec.Phone, rec.DiscountRate)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return domain.ErrDuplicatePassport
	}
	return err
}

func (r *Repository) SaveCapsule(ctx context.Context, rec domain.CapsuleRecord) error {
	defer observe(time.Now())

	_, err := r.pool.Exec(ctx, `
		INSERT INTO capsules (id, type, price_per_night)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, string(rec.Type), rec.PricePerNight)
	return err
}

func (r *Repository) SaveBooking(ctx context.Context, rec domain.BookingRecord) error {
	defer observe(time.Now())

	_, err := r.pool.Exec(ctx, `
		INSERT INTO bookings (id, guest_id, capsule_id, start_date, end_date, paid)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET paid = EXCLUDED.paid
	`, rec.ID, rec.GuestID, rec.CapsuleID, rec.StartDate, rec.EndDate, rec.Paid)
	return err
}

func (r *Repository) DeleteBooking(ctx context.Context, id int) error {
	defer observe(time.Now())

	result, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// Load reads the full snapshot used to rehydrate the aggregate on startup.
// The three entity loads run concurrently.
func (r *Repository) Load(ctx context.Context) (domain.Snapshot, error) {
	defer observe(time.Now())

	var snap domain.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.pool.Query(gctx, `SELECT id, name, passport, phone, discount_rate FROM guests ORDER BY id`)
		if err != nil {
			return errors.Wrap(err, "load guests")
		}
		defer rows.Close()
		for rows.Next() {
			var rec domain.GuestRecord
			if err := rows.Scan(&rec.ID, &rec.Name, &rec.Passport, &rec.Phone, &rec.DiscountRate); err != nil {
				return err
			}
			snap.Guests = append(snap.Guests, rec)
		}
		return rows.Err()
	})
	g.Go(func() error {
		rows, err := r.pool.Query(gctx, `SELECT id, type, price_per_night FROM capsules ORDER BY id`)
		if err != nil {
			return errors.Wrap(err, "load capsules")
		}
		defer rows.Close()
		for rows.Next() {
			var rec domain.CapsuleRecord
			var typ string
			if err := rows.Scan(&rec.ID, &typ, &rec.PricePerNight); err != nil {
				return err
			}
			rec.Type = domain.CapsuleType(typ)
			snap.Capsules = append(snap.Capsules, rec)
		}
		return rows.Err()
	})
	g.Go(func() error {
		rows, err := r.pool.Query(gctx, `SELECT id, guest_id, capsule_id, start_date, end_date, paid FROM bookings ORDER BY id`)
		if err != nil {
			return errors.Wrap(err, "load bookings")
		}
		defer rows.Close()
		for rows.Next() {
			var rec domain.BookingRecord
			if err := rows.Scan(&rec.ID, &rec.GuestID, &rec.CapsuleID, &rec.StartDate, &rec.EndDate, &rec.Paid); err != nil {
				return err
			}
			snap.Bookings = append(snap.Bookings, rec)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func observe(start time.Time) {
	observability.DBOpDuration.Observe(time.Since(start).Seconds())
}
