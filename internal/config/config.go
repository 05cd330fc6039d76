package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken  string
	DBDSN          string
	Environment    string
	LogLevel       string
	MigrationsPath string

	KafkaBrokers string
	KafkaTopic   string

	OTelEnabled  bool
	OTelEndpoint string

	SlotStep         time.Duration
	ConflictPolicy   string
	DataTimeout      time.Duration
	ReminderInterval time.Duration
}

// Load читает .env, если он есть, затем окружение процесса.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv собирает конфигурацию из lookup, для пустых ключей берёт значения по умолчанию.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := &Config{
		DBDSN:          get("DB_DSN", ""),
		TelegramToken:  get("TELEGRAM_TOKEN", ""),
		Environment:    get("ENV", "development"),
		LogLevel:       get("LOG_LEVEL", ""),
		MigrationsPath: get("MIGRATIONS_PATH", "migrations"),
		KafkaBrokers:   get("KAFKA_BROKERS", ""),
		KafkaTopic:     get("KAFKA_TOPIC", "appointment-events"),
		OTelEndpoint:   get("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		ConflictPolicy: get("CONFLICT_POLICY", "exact"),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	enabled := get("OTEL_ENABLED", "false")
	cfg.OTelEnabled = enabled != "false" && enabled != "0"

	minutes, err := strconv.Atoi(get("SLOT_STEP_MINUTES", "30"))
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("SLOT_STEP_MINUTES must be a positive integer")
	}
	cfg.SlotStep = time.Duration(minutes) * time.Minute

	if cfg.DataTimeout, err = time.ParseDuration(get("DATA_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("parse DATA_TIMEOUT: %w", err)
	}
	if cfg.ReminderInterval, err = time.ParseDuration(get("REMINDER_INTERVAL", "15m")); err != nil {
		return nil, fmt.Errorf("parse REMINDER_INTERVAL: %w", err)
	}
	if cfg.ReminderInterval <= 0 {
		return nil, fmt.Errorf("REMINDER_INTERVAL must be positive")
	}

	return cfg, nil
}

// IsProduction возвращает true при ENV=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
