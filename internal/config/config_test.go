// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package config

import (
	"strings"
	"testing"
)

// validConfig returns a config that passes validation; tests mutate one
// field at a time.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Stash.URL = "http://stash:9999"
	cfg.Security.JWTSecret = strings.Repeat("s", 32)
	cfg.Security.AdminUsername = "admin"
	cfg.Security.AdminPassword = "change-me-now"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing stash url", func(c *Config) { c.Stash.URL = "" }},
		{"malformed stash url", func(c *Config) { c.Stash.URL = "not a url" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }},
		{"missing admin username", func(c *Config) { c.Security.AdminUsername = "" }},
		{"short admin password", func(c *Config) { c.Security.AdminPassword = "short" }},
		{"bad auth mode", func(c *Config) { c.Security.AuthMode = "oauth" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"page size zero", func(c *Config) { c.Player.PageSize = 0 }},
		{"page size too large", func(c *Config) { c.Player.PageSize = 1000 }},
		{"cache without ttl", func(c *Config) { c.Player.CacheTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}
}

func TestValidate_NoneModeSkipsCredentialChecks(t *testing.T) {
	cfg := validConfig()
	cfg.Security.AuthMode = "none"
	cfg.Security.JWTSecret = ""
	cfg.Security.AdminUsername = ""
	cfg.Security.AdminPassword = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("none mode should not require credentials: %v", err)
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"STASHPLAYER_STASH_URL", "stash.url"},
		{"STASHPLAYER_STASH_API_KEY", "stash.api_key"},
		{"STASHPLAYER_SECURITY_ADMIN_USERNAME", "security.admin_username"},
		{"STASHPLAYER_SERVER_PORT", "server.port"},
		{"STASHPLAYER_PLAYER_PAGE_SIZE", "player.page_size"},
		{"STASHPLAYER_LOGGING_LEVEL", "logging.level"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("STASHPLAYER_STASH_URL", "http://stash.local:9999")
	t.Setenv("STASHPLAYER_SECURITY_AUTH_MODE", "none")
	t.Setenv("STASHPLAYER_SERVER_PORT", "8080")
	t.Setenv("STASHPLAYER_PLAYER_PAGE_SIZE", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Stash.URL != "http://stash.local:9999" {
		t.Errorf("stash url = %q", cfg.Stash.URL)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Player.PageSize != 60 {
		t.Errorf("page size = %d", cfg.Player.PageSize)
	}
	// Untouched keys keep their defaults.
	if cfg.Database.MaxMemory != "1GB" {
		t.Errorf("database.max_memory = %q", cfg.Database.MaxMemory)
	}
}
