package config

import (
	"os"
	"strings"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	Storage      string
	PostgresDSN  string
	KafkaBrokers []string
	SignalTopic  string

	// RootAccounts are the only callers allowed to run initial setup and the
	// sudo administrator operations.
	RootAccounts []string

	EnableOutboxRelay bool
	OutboxBatchSize   int
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "fundadmin"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	storage := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_BACKEND")))
	if storage != StoragePostgres {
		storage = StorageMemory
	}

	topic := os.Getenv("SIGNAL_TOPIC")
	if topic == "" {
		topic = "fund-admin.signals"
	}

	brokers := splitList(os.Getenv("KAFKA_BROKERS"))
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		Storage:      storage,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,
		SignalTopic:  topic,
		RootAccounts: splitList(os.Getenv("ROOT_ACCOUNTS")),

		EnableOutboxRelay: envBool("ENABLE_OUTBOX_RELAY", true),
		OutboxBatchSize:   100,
	}, nil
}

func splitList(raw string) []string {
	var items []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
