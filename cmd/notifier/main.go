package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/capsule-hotel/internal/adapters/rabbit"
	"github.com/robertarktes/capsule-hotel/internal/config"
	"github.com/robertarktes/capsule-hotel/internal/observability"
)

// The notifier drains booking lifecycle events and forwards them to a
// Telegram chat. Without a token it still consumes and logs, which keeps
// the queue from growing unbounded.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.RabbitURL == "" {
		log.Fatal("RABBIT_URL is required")
	}

	logger := observability.NewLogger()

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()

	consumer, err := rabbit.NewConsumer(conn, "notifications.q", "booking.*")
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}

	var tg *tgbotapi.BotAPI
	if cfg.BotToken != "" && cfg.NotifyChatID != 0 {
		tg, err = tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			log.Fatalf("failed to create telegram bot: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deliveries, err := consumer.Consume(ctx)
	if err != nil {
		log.Fatalf("failed to consume: %v", err)
	}

	go func() {
		for d := range deliveries {
			logger.WithFields(map[string]interface{}{
				"routing_key": d.RoutingKey,
				"message_id":  d.MessageId,
			}).Info("event received")

			if tg != nil {
				text := fmt.Sprintf("[%s] %s", d.RoutingKey, string(d.Body))
				if _, err := tg.Send(tgbotapi.NewMessage(cfg.NotifyChatID, text)); err != nil {
					logger.Error("send notification: ", err)
					d.Nack(false, true)
					continue
				}
			}
			d.Ack(false)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutdown notifier")
}
