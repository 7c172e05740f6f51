package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robertarktes/capsule-hotel/internal/adapters/postgres"
	"github.com/robertarktes/capsule-hotel/internal/domain"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16",
			Env:          map[string]string{"POSTGRES_USER": "hotel", "POSTGRES_PASSWORD": "hotel", "POSTGRES_DB": "hotel"},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor:   wait.ForListeningPort("5432/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatal(err)
	}

	dsn := "postgres://hotel:hotel@" + host + ":" + port.Port() + "/hotel?sslmode=disable"

	var pool *pgxpool.Pool
	for i := 0; i < 20; i++ {
		pool, err = pgxpool.New(ctx, dsn)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("connect to postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestRepository_SaveAndLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()

	pool := startPostgres(t, ctx)
	repo := postgres.NewRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatal(err)
	}

	guest := domain.GuestRecord{ID: 1, Name: "Ivan Ivanov", Passport: "1111111111", Phone: "+7900000001", DiscountRate: 0.1}
	capsule := domain.CapsuleRecord{ID: 1, Type: domain.CapsuleStandard, PricePerNight: 1480.5}
	today := domain.Today()
	booking := domain.BookingRecord{ID: 1, GuestID: 1, CapsuleID: 1, StartDate: today, EndDate: today.AddDate(0, 0, 3)}

	if err := repo.SaveGuest(ctx, guest); err != nil {
		t.Fatalf("save guest: %v", err)
	}
	if err := repo.SaveCapsule(ctx, capsule); err != nil {
		t.Fatalf("save capsule: %v", err)
	}
	if err := repo.SaveBooking(ctx, booking); err != nil {
		t.Fatalf("save booking: %v", err)
	}

	// Paid flag updates through the same upsert.
	booking.Paid = true
	if err := repo.SaveBooking(ctx, booking); err != nil {
		t.Fatalf("update booking: %v", err)
	}

	snap, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Guests) != 1 || len(snap.Capsules) != 1 || len(snap.Bookings) != 1 {
		t.Fatalf("unexpected snapshot sizes: %d guests, %d capsules, %d bookings",
			len(snap.Guests), len(snap.Capsules), len(snap.Bookings))
	}
	if snap.Guests[0].DiscountRate != 0.1 {
		t.Errorf("expected discount 0.1, got %v", snap.Guests[0].DiscountRate)
	}
	if !snap.Bookings[0].Paid {
		t.Error("expected booking to be paid after update")
	}

	restored, err := domain.RestoreHotel("test", snap)
	if err != nil {
		t.Fatalf("restore from snapshot: %v", err)
	}
	c, err := restored.Capsule(1)
	if err != nil {
		t.Fatal(err)
	}
	if c.IsAvailable() {
		t.Error("restored capsule must be occupied")
	}
}

func TestRepository_DuplicatePassport(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()

	pool := startPostgres(t, ctx)
	repo := postgres.NewRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatal(err)
	}

	if err := repo.SaveGuest(ctx, domain.GuestRecord{ID: 1, Name: "Ivan Ivanov", Passport: "1111111111", Phone: "+7900000001"}); err != nil {
		t.Fatal(err)
	}
	err := repo.SaveGuest(ctx, domain.GuestRecord{ID: 2, Name: "Petr Petrov", Passport: "1111111111", Phone: "+7900000002"})
	if !errors.Is(err, domain.ErrDuplicatePassport) {
		t.Fatalf("expected ErrDuplicatePassport, got %v", err)
	}
}

func TestRepository_DeleteBooking(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()

	pool := startPostgres(t, ctx)
	repo := postgres.NewRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteBooking(ctx, 42); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}
