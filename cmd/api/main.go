package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	mongoadapter "github.com/robertarktes/capsule-hotel/internal/adapters/mongo"
	"github.com/robertarktes/capsule-hotel/internal/adapters/postgres"
	"github.com/robertarktes/capsule-hotel/internal/adapters/rabbit"
	redisadapter "github.com/robertarktes/capsule-hotel/internal/adapters/redis"
	"github.com/robertarktes/capsule-hotel/internal/config"
	"github.com/robertarktes/capsule-hotel/internal/domain"
	httphandler "github.com/robertarktes/capsule-hotel/internal/http"
	"github.com/robertarktes/capsule-hotel/internal/idempotency"
	"github.com/robertarktes/capsule-hotel/internal/observability"
	"github.com/robertarktes/capsule-hotel/internal/ratelimit"
	"github.com/robertarktes/capsule-hotel/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	shutdown, err := observability.SetupOTel(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger()

	// Every backing service is optional. An unset address disables the
	// adapter and the hotel runs purely in memory.
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

	var audit service.Auditor
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer mongoClient.Disconnect(ctx)
		audit = mongoadapter.NewAuditLogger(mongoClient.Database("capsule_hotel"), logger)
	}

	var (
		stats service.StatsCache
		idemp *idempotency.Idempotency
		rl    *ratelimit.RateLimiter
	)
	if cfg.RedisAddr != "" {
		redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()

		cache := redisadapter.NewCache(redisClient)
		stats = cache
		idemp = idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), time.Hour)
		rl = ratelimit.NewRateLimiter(cache)
	}

	var events service.EventPublisher
	if cfg.RabbitURL != "" {
		rabbitConn, err := amqp.Dial(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer rabbitConn.Close()

		pub, err := rabbit.NewPublisher(rabbitConn)
		if err != nil {
			log.Fatalf("failed to create publisher: %v", err)
		}
		events = pub
	}

	svc := service.New(hotel, store, events, audit, stats, logger)
	if cfg.SeedSample {
		if err := svc.SeedSampleData(ctx); err != nil {
			log.Fatalf("failed to seed sample data: %v", err)
		}
	}

	handlers := httphandler.NewHandlers(svc, idemp)
	r := httphandler.SetupRouter(handlers, logger, rl)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		logger.Info("listening on ", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}
