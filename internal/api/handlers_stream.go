// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/stashplayer/internal/logging"
)

// streamClient has no timeout: a stream lives as long as playback does.
// Cancellation comes from the request context instead.
var streamClient = &http.Client{}

// Stream handles GET /api/v1/scenes/{id}/stream by proxying the
// upstream stream. The Stash API key stays server-side; the browser
// only ever sees this endpoint. Range requests pass through so seeking
// works.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	sceneID := chi.URLParam(r, "id")

	upstreamURL := h.streamer.StreamURL(sceneID)
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstreamURL, nil)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create stream request", err)
		return
	}

	if rangeHeader := r.Header.Get("Range"); rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := streamClient.Do(req)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "failed to reach upstream stream", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	for _, header := range []string{"Content-Type", "Content-Length", "Content-Range", "Accept-Ranges"} {
		if value := resp.Header.Get(header); value != "" {
			w.Header().Set(header, value)
		}
	}

	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		// Client seeks and disconnects are routine; log at debug only.
		logging.Ctx(r.Context()).Debug().Err(err).Str("scene_id", sceneID).Msg("Stream copy ended")
	}
}
