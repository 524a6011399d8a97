package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// AppConfig holds the application configuration.
type AppConfig struct {
	DBURL        string
	RedisAddress string
	BearerToken  string

	// Practice identity, substituted into every outbound message.
	PracticeName  string
	PracticePhone string

	// ClaimStageInterval is the simulated payer processing time between
	// claim pipeline stages. Injectable so tests can run the full pipeline
	// without wall-clock waits.
	ClaimStageInterval time.Duration

	// ReminderLeadTime is how long before an appointment the default
	// reminder fires.
	ReminderLeadTime time.Duration

	// CourtesyCallDelay is the wait before the follow-up call queued for
	// high-value overdue invoices.
	CourtesyCallDelay time.Duration
}

// GetBearerToken returns the BearerToken from the config.
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}

// GetEnvAsDuration reads a duration env var, falling back to a default on
// absence or parse failure.
func GetEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(name); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
		log.Printf("Warning: Invalid duration value for %s, using default: %s", name, defaultValue.String())
	}
	return defaultValue
}

// GetEnvAsInt reads an integer env var, falling back to a default on
// absence or parse failure.
func GetEnvAsInt(name string, defaultValue int) int {
	if value, exists := os.LookupEnv(name); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("Warning: Invalid integer value for %s, using default: %d", name, defaultValue)
	}
	return defaultValue
}

// GetEnv reads a string env var with a default.
func GetEnv(name, defaultValue string) string {
	if value, exists := os.LookupEnv(name); exists && value != "" {
		return value
	}
	return defaultValue
}
