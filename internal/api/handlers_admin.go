// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/stashplayer/internal/auth"
	"github.com/tomtom215/stashplayer/internal/logging"
)

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ListUsers handles GET /api/v1/admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data:    h.users.List(),
		Meta:    &APIMeta{Timestamp: time.Now().UTC()},
	})
}

// CreateUser handles POST /api/v1/admin/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed user request", nil)
		return
	}
	if req.Role == "" {
		req.Role = auth.RoleUser
	}

	if err := h.users.Create(req.Username, req.Password, req.Role); err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			respondError(w, r, http.StatusConflict, "USER_EXISTS", err.Error(), nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	logging.Ctx(r.Context()).Info().Str("username", req.Username).Str("role", req.Role).Msg("User created")

	user, err := h.users.Get(req.Username)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load created user", err)
		return
	}

	respondJSON(w, http.StatusCreated, &APIResponse{
		Success: true,
		Data:    user,
		Meta:    &APIMeta{Timestamp: time.Now().UTC()},
	})
}

// DeleteUser handles DELETE /api/v1/admin/users/{username}. The user's
// watch history goes with the account.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.users.Delete(username); err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		case errors.Is(err, auth.ErrLastAdmin):
			respondError(w, r, http.StatusConflict, "LAST_ADMIN", err.Error(), nil)
		default:
			respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete user", err)
		}
		return
	}

	if deleted, err := h.history.DeleteForUser(r.Context(), username); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("username", username).Msg("Failed to delete user history")
	} else if deleted > 0 {
		logging.Ctx(r.Context()).Info().Str("username", username).Int64("entries", deleted).Msg("Deleted user history")
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Meta:    &APIMeta{Timestamp: time.Now().UTC()},
	})
}
