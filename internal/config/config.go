package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the process configuration. Empty infrastructure values
// disable the corresponding collaborator rather than failing startup: the
// console front-end runs with no infrastructure at all.
type Config struct {
	HotelName    string
	HTTPAddr     string
	PostgresDSN  string
	MongoURI     string
	RedisAddr    string
	RabbitURL    string
	BotToken     string
	NotifyChatID int64
	OTLPEndpoint string
	SeedSample   bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	name := os.Getenv("HOTEL_NAME")
	if name == "" {
		name = "Cosmic Capsule Hotel"
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	seed, _ := strconv.ParseBool(os.Getenv("SEED_SAMPLE_DATA"))
	chatID, _ := strconv.ParseInt(os.Getenv("NOTIFY_CHAT_ID"), 10, 64)

	return &Config{
		HotelName:    name,
		HTTPAddr:     addr,
		PostgresDSN:  os.Getenv("PG_DSN"),
		MongoURI:     os.Getenv("MONGO_URI"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RabbitURL:    os.Getenv("RABBIT_URL"),
		BotToken:     os.Getenv("TELEGRAM_TOKEN"),
		NotifyChatID: chatID,
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SeedSample:   seed,
	}, nil
}
