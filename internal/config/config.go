// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/legaltext/finetuner/internal/logger"
)

// Config holds all runtime configuration for the API server.
type Config struct {
	// Server
	Host string
	Port string

	// Security
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int

	// External model runner
	RunnerURL     string
	RunnerTimeout time.Duration

	// Storage
	DataDir string

	// SMTP
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// Load reads configuration from the environment. A .env file is honored when
// present but is not required.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file loaded: %v", err)
	}

	return &Config{
		Host:            GetEnv("HOST", "0.0.0.0"),
		Port:            GetEnv("PORT", "8080"),
		JWTSecret:       GetEnv("JWT_SECRET", "insecure-dev-secret"),
		AccessTokenTTL:  GetEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: GetEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:      GetEnvInt("BCRYPT_COST", 12),
		RunnerURL:       GetEnv("RUNNER_URL", "http://localhost:9090"),
		RunnerTimeout:   GetEnvDuration("RUNNER_TIMEOUT", 5*time.Minute),
		DataDir:         GetEnv("DATA_DIR", "data"),
		SMTPHost:        GetEnv("SMTP_HOST", ""),
		SMTPPort:        GetEnvInt("SMTP_PORT", 587),
		SMTPUser:        GetEnv("SMTP_USER", ""),
		SMTPPass:        GetEnv("SMTP_PASSWORD", ""),
		MailFrom:        GetEnv("MAIL_FROM", "noreply@legaltext.local"),
	}
}

// GetEnv retrieves the value of an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvInt retrieves an integer environment variable with a fallback value
func GetEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warnf("invalid integer for %s: %q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

// GetEnvDuration retrieves a duration environment variable with a fallback value
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warnf("invalid duration for %s: %q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
