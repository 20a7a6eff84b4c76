package config

import (
	"os"
	"strconv"
	"time"

	"railbook/internal/cache"
	"railbook/internal/database"
	"railbook/internal/external"
	"railbook/internal/messaging"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Share links served out of the self-service portal
	ShareBaseURL string
	ShareTTL     time.Duration

	// Pending bookings older than this are expired by the background job
	BookingExpiration time.Duration

	Database     database.Config
	NATS         messaging.Config
	Valkey       cache.Config
	Notification external.NotificationConfig
	Carrier      external.CarrierConfig
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		ShareBaseURL: getEnv("SHARE_BASE_URL", "https://railbook.example.com/trips/shared"),
		ShareTTL:     time.Duration(getEnvInt("SHARE_TTL_HOURS", 720)) * time.Hour,

		BookingExpiration: time.Duration(getEnvInt("BOOKING_EXPIRATION_MIN", 30)) * time.Minute,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "railbook"),
			Password:           getEnv("DB_PASSWORD", "railbook"),
			DBName:             getEnv("DB_NAME", "railbook"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "railbook"),
			ClientID:  getEnv("NATS_CLIENT_ID", "railbook-api"),
		},

		Valkey: cache.Config{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: os.Getenv("VALKEY_PASSWORD"),
		},

		Notification: external.NotificationConfig{
			BaseURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8090"),
			APIKey:  os.Getenv("NOTIFICATION_API_KEY"),
			Sender:  getEnv("NOTIFICATION_SENDER", "bookings@railbook.example.com"),
			Timeout: time.Duration(getEnvInt("NOTIFICATION_TIMEOUT_SEC", 30)) * time.Second,
		},

		Carrier: external.CarrierConfig{
			BaseURL: getEnv("CARRIER_API_URL", "http://localhost:8091"),
			APIKey:  os.Getenv("CARRIER_API_KEY"),
			Timeout: time.Duration(getEnvInt("CARRIER_TIMEOUT_SEC", 30)) * time.Second,
		},
	}
}

// getEnv returns the value of an environment variable or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
