// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/stashplayer/internal/auth"
	"github.com/tomtom215/stashplayer/internal/history"
)

type recordWatchRequest struct {
	SceneID    string  `json:"scene_id"`
	SceneTitle string  `json:"scene_title"`
	Duration   float64 `json:"duration"`
}

type progressRequest struct {
	Position float64 `json:"position"`
}

// RecordWatch handles POST /api/v1/history: the player reports a
// playback start. Play counts feed the play_count filter upstream, so
// the query cache is dropped.
func (h *Handler) RecordWatch(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required", nil)
		return
	}

	var req recordWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SceneID == "" {
		respondError(w, r, http.StatusBadRequest, "BAD_REQUEST", "scene_id is required", nil)
		return
	}

	entry, err := h.history.RecordWatch(r.Context(), claims.Username, req.SceneID, req.SceneTitle, req.Duration)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to record watch", err)
		return
	}

	h.cache.Clear()

	respondJSON(w, http.StatusCreated, &APIResponse{
		Success: true,
		Data:    entry,
		Meta:    &APIMeta{Timestamp: time.Now().UTC()},
	})
}

// UpdateProgress handles PUT /api/v1/history/{id}/progress: the player
// reports the playback position for resume support. The update is scoped
// to the session's own records; another user's record id reads as absent.
func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required", nil)
		return
	}

	id := chi.URLParam(r, "id")

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Position < 0 {
		respondError(w, r, http.StatusBadRequest, "BAD_REQUEST", "position must be a non-negative number", nil)
		return
	}

	if err := h.history.UpdateProgress(r.Context(), claims.Username, id, req.Position); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "NOT_FOUND", "watch record not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update progress", err)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Meta:    &APIMeta{Timestamp: time.Now().UTC()},
	})
}

// History handles GET /api/v1/history: the session's watch history,
// newest first. Supports scene_id, limit, and offset parameters.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required", nil)
		return
	}

	q := history.Query{
		Username: claims.Username,
		SceneID:  r.URL.Query().Get("scene_id"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, r, http.StatusBadRequest, "BAD_REQUEST", "limit must be a positive integer", nil)
			return
		}
		q.Limit = n
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, r, http.StatusBadRequest, "BAD_REQUEST", "offset must be a non-negative integer", nil)
			return
		}
		q.Offset = n
	}

	entries, total, err := h.history.List(r.Context(), q)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to query history", err)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data:    entries,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC(),
			Pagination: &PaginationMeta{
				Total:   total,
				PerPage: len(entries),
			},
		},
	})
}

// Resume handles GET /api/v1/scenes/{id}/resume: the position at which
// playback of a scene should resume for this session.
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required", nil)
		return
	}

	position, err := h.history.ResumePosition(r.Context(), claims.Username, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to query resume position", err)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data:    map[string]float64{"position": position},
		Meta:    &APIMeta{Timestamp: time.Now().UTC()},
	})
}
