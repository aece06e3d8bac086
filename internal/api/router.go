// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/stashplayer/internal/auth"
	"github.com/tomtom215/stashplayer/internal/config"
	"github.com/tomtom215/stashplayer/internal/middleware"
)

// Router builds the HTTP handler tree.
type Router struct {
	handler *Handler
	authMW  *auth.Middleware
	cfg     *config.Config
}

// NewRouter creates the router.
func NewRouter(handler *Handler, authMW *auth.Middleware, cfg *config.Config) *Router {
	return &Router{handler: handler, authMW: authMW, cfg: cfg}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "Range"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Range", "Accept-Ranges"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	rateLimit := httprate.LimitByIP(router.cfg.Security.RateLimitReqs, router.cfg.Security.RateLimitWindow)
	// Brute-force protection on login, independent of the general limit.
	loginLimit := httprate.LimitByIP(5, 5*time.Minute)

	// Health endpoints are unauthenticated so orchestrators can probe.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", router.handler.HealthLive)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(rateLimit)
		r.With(loginLimit).Post("/login", router.handler.Login)
		r.Post("/logout", router.handler.Logout)
		r.With(router.authMW.Authenticate).Get("/me", router.handler.Me)
	})

	// Catalog, filter metadata, history, and streaming all require a
	// session.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.authMW.Authenticate)

		r.Get("/scenes", router.handler.Scenes)
		r.Get("/performers", router.handler.Performers)
		r.Get("/studios", router.handler.Studios)
		r.Get("/tags", router.handler.Tags)
		r.Get("/{entityType}/filters", router.handler.Filters)

		r.Get("/scenes/{id}/stream", router.handler.Stream)
		r.Get("/scenes/{id}/resume", router.handler.Resume)

		r.Post("/history", router.handler.RecordWatch)
		r.Get("/history", router.handler.History)
		r.Put("/history/{id}/progress", router.handler.UpdateProgress)

		r.Route("/admin", func(r chi.Router) {
			r.Use(router.authMW.RequireRole(auth.RoleAdmin))
			r.Get("/users", router.handler.ListUsers)
			r.Post("/users", router.handler.CreateUser)
			r.Delete("/users/{username}", router.handler.DeleteUser)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
