// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Payment providers.
const (
	PaymentStripe   = "stripe"
	PaymentDisabled = "disabled"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver       string        `env:"CHAKRAVYA_DB_DRIVER" envDefault:"sqlite"`
	DBDSN          string        `env:"CHAKRAVYA_DB_DSN" envDefault:"./data/chakravya.db"`
	DBMaxOpenConns int           `env:"CHAKRAVYA_DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns int           `env:"CHAKRAVYA_DB_MAX_IDLE_CONNS" envDefault:"10"`
	SessionSecret  string        `env:"CHAKRAVYA_SESSION_SECRET,required"`
	ServerHost     string        `env:"CHAKRAVYA_SERVER_HOST" envDefault:"localhost"`
	ServerPort     int           `env:"CHAKRAVYA_SERVER_PORT" envDefault:"5000"`
	Env            string        `env:"CHAKRAVYA_ENV" envDefault:"development"`
	LogLevel       string        `env:"CHAKRAVYA_LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"CHAKRAVYA_LOG_FORMAT" envDefault:"text"`
	TrustedOrigins []string      `env:"CHAKRAVYA_TRUSTED_ORIGINS" envSeparator:","`
	RequestTimeout time.Duration `env:"CHAKRAVYA_REQUEST_TIMEOUT" envDefault:"30s"`

	// Cache configuration
	RedisURL     string `env:"CHAKRAVYA_REDIS_URL"`                            // Optional Redis URL for shared caching
	CachePrefix  string `env:"CHAKRAVYA_CACHE_PREFIX" envDefault:"chakravya:"` // Redis key prefix
	CacheTTL     int    `env:"CHAKRAVYA_CACHE_TTL" envDefault:"300"`           // Catalog cache TTL in seconds
	CacheMaxSize int    `env:"CHAKRAVYA_CACHE_MAX_SIZE" envDefault:"1000"`     // Max memory cache entries

	// Payment configuration
	PaymentProvider string `env:"CHAKRAVYA_PAYMENT_PROVIDER" envDefault:"disabled"`
	StripeSecretKey string `env:"CHAKRAVYA_STRIPE_SECRET_KEY"`
	PaymentCurrency string `env:"CHAKRAVYA_PAYMENT_CURRENCY" envDefault:"inr"`

	// Seeding configuration
	DoSeed        bool   `env:"CHAKRAVYA_DO_SEED" envDefault:"false"`
	AdminEmail    string `env:"CHAKRAVYA_ADMIN_EMAIL" envDefault:"admin@chakravya.com"`
	AdminPassword string `env:"CHAKRAVYA_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// PaymentsEnabled reports whether a live payment provider is configured.
func (c Config) PaymentsEnabled() bool {
	return c.PaymentProvider == PaymentStripe
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CHAKRAVYA_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("CHAKRAVYA_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("CHAKRAVYA_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch c.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("CHAKRAVYA_DB_DRIVER must be one of %q, %q, %q; got %q",
			DriverSQLite, DriverPostgres, DriverMySQL, c.DBDriver)
	}

	switch c.PaymentProvider {
	case PaymentDisabled:
	case PaymentStripe:
		if c.StripeSecretKey == "" {
			return errors.New("CHAKRAVYA_STRIPE_SECRET_KEY is required when CHAKRAVYA_PAYMENT_PROVIDER=stripe")
		}
	default:
		return fmt.Errorf("CHAKRAVYA_PAYMENT_PROVIDER must be %q or %q, got %q", PaymentStripe, PaymentDisabled, c.PaymentProvider)
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
