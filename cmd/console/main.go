package main

import (
	"context"
	"log"
	"os"

	"github.com/robertarktes/capsule-hotel/internal/config"
	"github.com/robertarktes/capsule-hotel/internal/console"
	"github.com/robertarktes/capsule-hotel/internal/domain"
	"github.com/robertarktes/capsule-hotel/internal/observability"
	"github.com/robertarktes/capsule-hotel/internal/service"
)

// The console front-end runs the hotel in memory, without any backing
// services. State lives for the session only.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	logger := observability.NewLogger()

	svc := service.New(domain.NewHotel(cfg.HotelName), nil, nil, nil, nil, logger)
	if cfg.SeedSample {
		if err := svc.SeedSampleData(ctx); err != nil {
			log.Fatalf("failed to seed sample data: %v", err)
		}
	}

	console.New(svc, os.Stdin, os.Stdout).Run(ctx)
}
