package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robertarktes/capsule-hotel/internal/adapters/postgres"
	"github.com/robertarktes/capsule-hotel/internal/bot"
	"github.com/robertarktes/capsule-hotel/internal/config"
	"github.com/robertarktes/capsule-hotel/internal/domain"
	"github.com/robertarktes/capsule-hotel/internal/observability"
	"github.com/robertarktes/capsule-hotel/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.BotToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := observability.NewLogger()

	var store service.Store
	hotel := domain.NewHotel(cfg.HotelName)
	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		repo := postgres.NewRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
		snap, err := repo.Load(ctx)
		if err != nil {
			log.Fatalf("failed to load state: %v", err)
		}
		hotel, err = domain.RestoreHotel(cfg.HotelName, snap)
		if err != nil {
			log.Fatalf("failed to restore state: %v", err)
		}
		store = repo
	}

	svc := service.New(hotel, store, nil, nil, nil, logger)
	if cfg.SeedSample {
		if err := svc.SeedSampleData(ctx); err != nil {
			log.Fatalf("failed to seed sample data: %v", err)
		}
	}

	b, err := bot.New(cfg.BotToken, svc, logger)
	if err != nil {
		log.Fatalf("failed to start bot: %v", err)
	}
	b.Run(ctx)
}
