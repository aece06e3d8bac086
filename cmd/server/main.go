// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

// Package main is the entry point for the Stash Player server.
//
// Stash Player is a self-hosted browsing and playback front-end for a
// Stash media server. It talks to Stash's GraphQL API, adds its own
// accounts and watch history, and serves a filtered, sorted, paged
// catalog API for the player UI.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: settings from config.yaml and environment (Koanf v2)
//  2. Watch history: DuckDB store for playback records and resume positions
//  3. Stash client: GraphQL client with retry, rate limiting, and a circuit breaker
//  4. Authentication: JWT sessions with a seeded admin account
//  5. HTTP server: chi router under a suture supervisor tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables (STASHPLAYER_ prefix), config
// file, built-in defaults.
//
// Required settings:
//   - STASHPLAYER_STASH_URL: base URL of the Stash server
//   - STASHPLAYER_SECURITY_JWT_SECRET: 32+ character token signing secret
//   - STASHPLAYER_SECURITY_ADMIN_USERNAME / _ADMIN_PASSWORD: seeded admin
//
// For development against a local Stash:
//
//	export STASHPLAYER_STASH_URL=http://localhost:9999
//	export STASHPLAYER_SECURITY_AUTH_MODE=none
//	./stashplayer
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests (10s timeout), and
// closes the history database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/stashplayer/internal/api"
	"github.com/tomtom215/stashplayer/internal/auth"
	"github.com/tomtom215/stashplayer/internal/cache"
	"github.com/tomtom215/stashplayer/internal/config"
	"github.com/tomtom215/stashplayer/internal/filter"
	"github.com/tomtom215/stashplayer/internal/history"
	"github.com/tomtom215/stashplayer/internal/logging"
	"github.com/tomtom215/stashplayer/internal/stash"
	"github.com/tomtom215/stashplayer/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("stash_url", cfg.Stash.URL).
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting Stash Player")

	historyStore, err := history.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize watch history database")
	}
	defer func() {
		if err := historyStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing history database")
		}
	}()

	// Stash client behind a circuit breaker so a down upstream degrades
	// into fast errors instead of piled-up requests.
	stashClient := stash.NewCircuitBreakerClient(&cfg.Stash)
	if err := stashClient.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Failed to connect to Stash (will retry on demand)")
	} else {
		logging.Info().Msg("Connected to Stash")
	}

	users, err := auth.NewUserStore(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize user store")
	}

	var jwtManager *auth.JWTManager
	if cfg.Security.AuthMode != "none" {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
	}

	queryCache := cache.NewLRU(cfg.Player.CacheSize, cfg.Player.CacheTTL)

	handler := api.NewHandler(
		filter.DefaultRegistry(),
		stashClient,
		stashClient,
		queryCache,
		historyStore,
		users,
		jwtManager,
		cfg,
	)
	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager, cfg.Security.AuthMode), cfg)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		// No blanket write timeout: stream proxying runs as long as
		// playback does. Handler-level contexts bound the API paths.
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddMaintenanceService(supervisor.NewCacheJanitorService(queryCache, cfg.Player.CacheTTL))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("HTTP server starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree exited with error")
		os.Exit(1)
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logging.Info().Msg("Shutdown complete")
}
