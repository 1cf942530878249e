package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EventsBackendNone     = ""
	EventsBackendRabbitMQ = "rabbitmq"
	EventsBackendPubSub   = "pubsub"
)

type Config struct {
	ServerPort int
	LogLevel   string

	// SessionExpiryHours is added to the login time to compute a session's
	// expiry. Read from USER_SESSION_EXPIRY_HOURS.
	SessionExpiryHours int

	MigrationsPath string

	Database DatabaseConfig
	Events   EventsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type EventsConfig struct {
	Backend  string
	Channel  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "usersvc"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "users_db"),
		UseSSL:   getEnvBool("DB_SSL", false),
	}

	eventsConfig := EventsConfig{
		Backend: strings.ToLower(strings.TrimSpace(getEnv("EVENTS_BACKEND", EventsBackendNone))),
		Channel: getEnv("EVENTS_CHANNEL", "account-events"),
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
			PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH", 10),
		},
		PubSub: PubSubConfig{
			ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
		},
	}

	return Config{
		ServerPort:         getEnvInt("SERVER_PORT", 8080),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SessionExpiryHours: getEnvInt("USER_SESSION_EXPIRY_HOURS", 1),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "internal/db/migrations"),
		Database:           dbConfig,
		Events:             eventsConfig,
	}
}

// Validate reports the first setting that would keep the service from
// starting correctly.
func (c Config) Validate() error {
	if c.ServerPort < 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.ServerPort)
	}
	if c.SessionExpiryHours < 1 {
		return fmt.Errorf("USER_SESSION_EXPIRY_HOURS must be a positive whole number, got %d", c.SessionExpiryHours)
	}
	switch c.Events.Backend {
	case EventsBackendNone:
	case EventsBackendRabbitMQ:
		if strings.TrimSpace(c.Events.RabbitMQ.URL) == "" {
			return errors.New("RABBITMQ_URL is required for the rabbitmq events backend")
		}
	case EventsBackendPubSub:
		if strings.TrimSpace(c.Events.PubSub.ProjectID) == "" {
			return errors.New("PUBSUB_PROJECT_ID is required for the pubsub events backend")
		}
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.Events.Backend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns 0 for a set value that is not a whole number, so
// Validate rejects it instead of reading "1.5" as 1.
func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		value, err := strconv.Atoi(strings.TrimSpace(valueStr))
		if err != nil {
			return 0
		}
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
		if err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}
