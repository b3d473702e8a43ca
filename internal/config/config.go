// Package config provides configuration management for the application
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP server and allocation settings
type ServerConfig struct {
	Port     string
	LogLevel string
	// MaxRoomsPerBooking is the largest request a single booking may make
	MaxRoomsPerBooking int
	// RandomSeed seeds random occupancy (0 means seed from the clock)
	RandomSeed int64
	// HistoryLimit caps the number of bookings kept in the history (0 means unlimited)
	HistoryLimit int
}

// RedisConfig holds Redis/Valkey configuration
type RedisConfig struct {
	Enabled bool
	// URI is prioritized if provided, otherwise individual connection parameters are used
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	// TTL for the booking history (0 means no expiration)
	HistoryTTL time.Duration
}

// LoadDotEnv loads variables from a .env file if one exists.
// Variables already set in the environment take precedence.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	return godotenv.Load(existing...)
}

// GetServerConfig loads server configuration from environment variables
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxRoomsPerBooking: getEnvInt("BOOKING_MAX_ROOMS", 5),
		RandomSeed:         int64(getEnvInt("RANDOM_SEED", 0)),
		HistoryLimit:       getEnvInt("HISTORY_LIMIT", 100),
	}
}

// GetRedisConfig loads Redis/Valkey configuration from environment variables
func GetRedisConfig() RedisConfig {
	ttl := time.Duration(getEnvInt("REDIS_HISTORY_TTL_HOURS", 24)) * time.Hour

	return RedisConfig{
		Enabled:    getEnvBool("REDIS_ENABLED", false),
		URI:        getEnv("REDIS_URI_ROOMALLOC", ""),
		Host:       getEnv("REDIS_HOST_ROOMALLOC", getEnv("REDIS_ADDRESS", "localhost")),
		Port:       getEnv("REDIS_PORT_ROOMALLOC", "6379"),
		Username:   getEnv("REDIS_USERNAME_ROOMALLOC", ""),
		Password:   getEnv("REDIS_PASSWORD_ROOMALLOC", getEnv("REDIS_PASSWORD", "")),
		DB:         getEnvInt("REDIS_DB", 0),
		KeyPrefix:  getEnv("REDIS_KEY_PREFIX", "roomalloc:"),
		HistoryTTL: ttl,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool retrieves a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvInt retrieves an integer environment variable
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
