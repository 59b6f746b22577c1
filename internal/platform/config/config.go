// Package config reads all runtime configuration from the environment so
// main stays lean. Every value has a development default; production
// overrides them per deployment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures the full service configuration.
type Server struct {
	Addr     string
	LogLevel string

	// DatabaseURL is the Postgres DSN. Empty means in-memory storage.
	DatabaseURL string

	Redis RedisConfig

	// KafkaBrokers and KafkaTopic configure delivery-history events. An
	// empty broker list disables publishing.
	KafkaBrokers []string
	KafkaTopic   string

	// Upstream base URLs.
	PartyRegistryURL   string
	CitizenRegistryURL string
	MailboxRegistryURL string
	MessagingURL       string

	// SendConcurrency caps in-flight sends across all messages.
	SendConcurrency int64

	// MailboxCacheTTL bounds how long a mailbox reachability answer is
	// trusted.
	MailboxCacheTTL time.Duration
}

// RedisConfig holds connection settings for the mailbox precheck cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:        getenv("POSTPORTAL_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getenvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getenvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getenvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getenvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getenvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},

		KafkaBrokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "postportal.delivery-history"),

		PartyRegistryURL:   getenv("PARTY_REGISTRY_URL", "http://localhost:9101"),
		CitizenRegistryURL: getenv("CITIZEN_REGISTRY_URL", "http://localhost:9102"),
		MailboxRegistryURL: getenv("MAILBOX_REGISTRY_URL", "http://localhost:9103"),
		MessagingURL:       getenv("MESSAGING_URL", "http://localhost:9104"),

		SendConcurrency: int64(getenvInt("SEND_CONCURRENCY", 32)),
		MailboxCacheTTL: getenvDuration("MAILBOX_CACHE_TTL", 5*time.Minute),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
