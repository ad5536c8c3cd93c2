// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from KVDL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/scheduler"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	SessionSecret string `env:"KVDL_SESSION_SECRET,required"`
	ServerHost    string `env:"KVDL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"KVDL_SERVER_PORT" envDefault:"5000"`
	Env           string `env:"KVDL_ENV" envDefault:"development"`
	LogLevel      string `env:"KVDL_LOG_LEVEL" envDefault:"info"`

	// Uploads
	UploadsDir     string        `env:"KVDL_UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadMB    int64         `env:"KVDL_MAX_UPLOAD_MB" envDefault:"10"`
	RequestTimeout time.Duration `env:"KVDL_REQUEST_TIMEOUT" envDefault:"30s"`

	// Sessions. RedisURL selects the Redis backend; memory is the default.
	RedisURL           string        `env:"KVDL_REDIS_URL"`
	CachePrefix        string        `env:"KVDL_CACHE_PREFIX" envDefault:"kvdl:"`
	SessionLifetime    time.Duration `env:"KVDL_SESSION_LIFETIME" envDefault:"24h"`
	SessionIdleTimeout time.Duration `env:"KVDL_SESSION_IDLE_TIMEOUT" envDefault:"24h"`
	JanitorSchedule    string        `env:"KVDL_SESSION_JANITOR_SCHEDULE" envDefault:"@hourly"`

	// Seeding
	AdminUsername  string `env:"KVDL_ADMIN_USERNAME"`
	AdminPassword  string `env:"KVDL_ADMIN_PASSWORD"`
	AdminEmail     string `env:"KVDL_ADMIN_EMAIL"`
	SeedSampleData bool   `env:"KVDL_SEED_SAMPLE_DATA" envDefault:"true"`

	// HTTP surface
	CORSOrigins    []string `env:"KVDL_CORS_ORIGINS" envSeparator:","`
	MetricsEnabled bool     `env:"KVDL_METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedis returns true if the Redis session backend is configured.
func (c Config) UseRedis() bool {
	return c.RedisURL != ""
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("KVDL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("KVDL_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("KVDL_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("KVDL_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("KVDL_MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.SessionLifetime <= 0 || c.SessionIdleTimeout <= 0 {
		return errors.New("session lifetime and idle timeout must be positive")
	}
	if err := scheduler.ValidateSchedule(c.JanitorSchedule); err != nil {
		return fmt.Errorf("KVDL_SESSION_JANITOR_SCHEDULE: %w", err)
	}

	if len(c.AdminPassword) > model.MaxPasswordLength {
		return fmt.Errorf("KVDL_ADMIN_PASSWORD must be at most %d bytes, got %d bytes",
			model.MaxPasswordLength, len(c.AdminPassword))
	}
	if !c.IsDevelopment() && c.AdminPassword == "" {
		slog.Warn("KVDL_ADMIN_PASSWORD is not set; the default admin password is in use")
	}

	return nil
}

// TrustedOrigins returns the CORS origins as host[:port] values.
func (c Config) TrustedOrigins() []string {
	hosts := make([]string, 0, len(c.CORSOrigins))
	for _, o := range c.CORSOrigins {
		o = strings.TrimSpace(o)
		o = strings.TrimPrefix(o, "https://")
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimSuffix(o, "/")
		if o != "" {
			hosts = append(hosts, o)
		}
	}
	return hosts
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
