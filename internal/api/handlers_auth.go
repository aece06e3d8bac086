// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/stashplayer/internal/auth"
	"github.com/tomtom215/stashplayer/internal/logging"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionInfo struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login handles POST /api/v1/auth/login. On success it sets the session
// cookie and returns the account; the token is also included for
// non-browser clients that prefer a Bearer header.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.jwt == nil {
		respondError(w, r, http.StatusBadRequest, "AUTH_DISABLED", "authentication is disabled on this instance", nil)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed login request", nil)
		return
	}

	user, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredential) {
			respondError(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "login failed", err)
		return
	}

	token, err := h.jwt.GenerateToken(user.Username, user.Role)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create session", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.jwt.Timeout()),
		HttpOnly: true,
		Secure:   h.cfg.Security.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	logging.Ctx(r.Context()).Info().Str("username", user.Username).Msg("User logged in")

	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data: map[string]any{
			"user":  sessionInfo{Username: user.Username, Role: user.Role},
			"token": token,
		},
		Meta: &APIMeta{Timestamp: time.Now().UTC()},
	})
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless, so
// logout just expires the cookie client-side.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Security.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Meta:    &APIMeta{Timestamp: time.Now().UTC()},
	})
}

// Me handles GET /api/v1/auth/me: the authenticated session's identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required", nil)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data:    sessionInfo{Username: claims.Username, Role: claims.Role},
		Meta:    &APIMeta{Timestamp: time.Now().UTC()},
	})
}
