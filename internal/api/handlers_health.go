// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthLive handles GET /api/v1/health/live: process liveness only.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data:    map[string]string{"status": "alive"},
		Meta:    &APIMeta{Timestamp: time.Now().UTC()},
	})
}

// HealthReady handles GET /api/v1/health/ready: checks the history
// database and the upstream Stash connection. A degraded upstream still
// reports 503 so orchestrators stop routing traffic here.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"stash":    "ok",
	}
	healthy := true

	if err := h.history.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if err := h.finder.Ping(ctx); err != nil {
		checks["stash"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, &APIResponse{
		Success: healthy,
		Data:    checks,
		Meta:    &APIMeta{Timestamp: time.Now().UTC()},
	})
}
