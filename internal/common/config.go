package common

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig
	Poll    PollConfig
	Session SessionConfig
}

// APIConfig holds the remote analysis service settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PollConfig holds result-polling settings
type PollConfig struct {
	MaxAttempts int
	BackoffStep time.Duration
}

// SessionConfig holds client-side session persistence settings
type SessionConfig struct {
	TokenPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: getEnv("DETECTABB_API_URL", "http://localhost:8000"),
			Timeout: getEnvAsDuration("DETECTABB_HTTP_TIMEOUT", 30*time.Second),
		},
		Poll: PollConfig{
			MaxAttempts: getEnvAsInt("DETECTABB_POLL_ATTEMPTS", 10),
			BackoffStep: getEnvAsDuration("DETECTABB_POLL_STEP", 500*time.Millisecond),
		},
		Session: SessionConfig{
			TokenPath: getEnv("DETECTABB_TOKEN_FILE", defaultTokenPath()),
		},
	}
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".detectabb/token.json"
	}
	return filepath.Join(home, ".detectabb", "token.json")
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return NewAppError("CONFIG_ERROR", "DETECTABB_API_URL is required", ErrInvalidInput)
	}
	if c.Poll.MaxAttempts <= 0 {
		return NewAppError("CONFIG_ERROR", "DETECTABB_POLL_ATTEMPTS must be positive", ErrInvalidInput)
	}
	if c.Poll.BackoffStep <= 0 {
		return NewAppError("CONFIG_ERROR", "DETECTABB_POLL_STEP must be positive", ErrInvalidInput)
	}
	return nil
}
