// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

// Package config defines the Stash Player configuration model and its
// layered Koanf v2 loader (defaults -> YAML file -> environment).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Stash    StashConfig    `koanf:"stash"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Player   PlayerConfig   `koanf:"player"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StashConfig holds the upstream Stash server connection settings.
type StashConfig struct {
	// URL is the base URL of the Stash server (e.g. http://stash:9999).
	URL string `koanf:"url" validate:"required,url"`

	// APIKey is the Stash API key sent as the ApiKey header. Optional for
	// unauthenticated Stash instances.
	APIKey string `koanf:"api_key"`

	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries" validate:"min=0,max=10"`

	// RequestsPerSecond bounds the request rate against the upstream.
	// Zero disables client-side rate limiting.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// DatabaseConfig holds the DuckDB watch-history store settings.
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// SecurityConfig holds authentication settings.
type SecurityConfig struct {
	// AuthMode selects the authentication mode: "jwt" (default) or
	// "none" for development.
	AuthMode string `koanf:"auth_mode" validate:"oneof=jwt none"`

	// JWTSecret signs session tokens. Required (32+ chars) in jwt mode.
	JWTSecret string `koanf:"jwt_secret"`

	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AdminUsername/AdminPassword seed the built-in admin account.
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	// CookieSecure marks the session cookie Secure; disable only for
	// plain-HTTP development setups.
	CookieSecure bool `koanf:"cookie_secure"`

	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// PlayerConfig holds catalog browsing settings.
type PlayerConfig struct {
	// PageSize is the default page size for catalog list views; requests
	// may override it with per_page.
	PageSize int `koanf:"page_size" validate:"min=1,max=200"`

	// CacheSize is the maximum number of upstream query results kept in
	// the in-memory cache. Zero falls back to the default capacity (256).
	CacheSize int `koanf:"cache_size" validate:"min=0"`

	// CacheTTL bounds how long a cached upstream result may be served.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// validate is the shared struct validator; tag rules cover per-field
// constraints, Validate() adds the cross-field checks.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration, combining validator tag rules with
// cross-field rules that tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Security.AuthMode == "jwt" {
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("security.jwt_secret must be at least 32 characters in jwt mode")
		}
		if c.Security.AdminUsername == "" {
			return fmt.Errorf("security.admin_username is required in jwt mode")
		}
		if len(c.Security.AdminPassword) < 8 {
			return fmt.Errorf("security.admin_password must be at least 8 characters in jwt mode")
		}
	}

	if c.Player.CacheSize > 0 && c.Player.CacheTTL <= 0 {
		return fmt.Errorf("player.cache_ttl must be positive when player.cache_size is set")
	}

	return nil
}
