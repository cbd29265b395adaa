package config

import (
	"os"
	"strings"
)

// Config captures process-level configuration so main stays lean.
type Config struct {
	Addr          string
	PostgresURL   string
	RedisURL      string
	KafkaBrokers  []string
	KafkaTopic    string
	JWTSigningKey string
}

// FromEnv builds a Config from environment variables. Postgres, redis, and
// kafka are optional: absent URLs select the in-memory implementations.
func FromEnv() Config {
	addr := os.Getenv("SSS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("SSS_KAFKA_TOPIC")
	if topic == "" {
		topic = "stablecoin.events"
	}

	jwtSigningKey := os.Getenv("SSS_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("SSS_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Config{
		Addr:          addr,
		PostgresURL:   os.Getenv("SSS_POSTGRES_URL"),
		RedisURL:      os.Getenv("SSS_REDIS_URL"),
		KafkaBrokers:  brokers,
		KafkaTopic:    topic,
		JWTSigningKey: jwtSigningKey,
	}
}
