// Package config loads server and CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DevSecret is the JWT secret used when JWT_SECRET is unset in development.
const DevSecret = "tripsplitter-dev-secret"

// Config holds all runtime settings.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	TokenTTL  time.Duration
	LogLevel  string
	Env       string
}

// Load reads a .env file if one exists, then the environment.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return FromEnv()
}

// LoadDotEnv copies the variables of ./.env into the environment. Variables
// that are already set win. A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading .env: %w", err)
	}
	return nil
}

// DBPath returns DB_PATH or the default database location.
func DBPath() string {
	return getEnv("DB_PATH", "./data/trips.db")
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    DBPath(),
		JWTSecret: os.Getenv("JWT_SECRET"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Env:       getEnv("APP_ENV", "development"),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "360h"))
	if err != nil {
		return nil, fmt.Errorf("parsing TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	if cfg.JWTSecret == "" {
		if cfg.Env != "development" {
			return nil, errors.New("JWT_SECRET is required outside development")
		}
		slog.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = DevSecret
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
