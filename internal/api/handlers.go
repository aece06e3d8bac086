// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/stashplayer/internal/auth"
	"github.com/tomtom215/stashplayer/internal/cache"
	"github.com/tomtom215/stashplayer/internal/config"
	"github.com/tomtom215/stashplayer/internal/filter"
	"github.com/tomtom215/stashplayer/internal/history"
	"github.com/tomtom215/stashplayer/internal/stash"
)

// Streamer resolves a scene's upstream stream URL. Satisfied by both
// stash client flavors.
type Streamer interface {
	StreamURL(sceneID string) string
}

// Handler carries the dependencies of every endpoint.
type Handler struct {
	registry *filter.Registry
	finder   stash.Finder
	streamer Streamer
	cache    *cache.LRU
	history  *history.Store
	users    *auth.UserStore
	jwt      *auth.JWTManager
	cfg      *config.Config
}

// NewHandler wires the endpoint dependencies together.
func NewHandler(
	registry *filter.Registry,
	finder stash.Finder,
	streamer Streamer,
	queryCache *cache.LRU,
	historyStore *history.Store,
	users *auth.UserStore,
	jwt *auth.JWTManager,
	cfg *config.Config,
) *Handler {
	return &Handler{
		registry: registry,
		finder:   finder,
		streamer: streamer,
		cache:    queryCache,
		history:  historyStore,
		users:    users,
		jwt:      jwt,
		cfg:      cfg,
	}
}

// Scenes handles GET /api/v1/scenes.
func (h *Handler) Scenes(w http.ResponseWriter, r *http.Request) {
	h.listEntities(w, r, filter.EntityScene, func(ctx context.Context, qd filter.QueryDescriptor) (any, int, error) {
		result, err := h.finder.FindScenes(ctx, qd)
		if err != nil {
			return nil, 0, err
		}
		return result.Scenes, result.Count, nil
	})
}

// Performers handles GET /api/v1/performers.
func (h *Handler) Performers(w http.ResponseWriter, r *http.Request) {
	h.listEntities(w, r, filter.EntityPerformer, func(ctx context.Context, qd filter.QueryDescriptor) (any, int, error) {
		result, err := h.finder.FindPerformers(ctx, qd)
		if err != nil {
			return nil, 0, err
		}
		return result.Performers, result.Count, nil
	})
}

// Studios handles GET /api/v1/studios.
func (h *Handler) Studios(w http.ResponseWriter, r *http.Request) {
	h.listEntities(w, r, filter.EntityStudio, func(ctx context.Context, qd filter.QueryDescriptor) (any, int, error) {
		result, err := h.finder.FindStudios(ctx, qd)
		if err != nil {
			return nil, 0, err
		}
		return result.Studios, result.Count, nil
	})
}

// Tags handles GET /api/v1/tags.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	h.listEntities(w, r, filter.EntityTag, func(ctx context.Context, qd filter.QueryDescriptor) (any, int, error) {
		result, err := h.finder.FindTags(ctx, qd)
		if err != nil {
			return nil, 0, err
		}
		return result.Tags, result.Count, nil
	})
}

// cachedPage is the cached payload of one listing.
type cachedPage struct {
	items any
	total int
}

// listEntities is the shared catalog listing flow: parse the filter
// parameters into a state, build the query descriptor, serve from the
// query cache when possible, otherwise ask the upstream.
func (h *Handler) listEntities(w http.ResponseWriter, r *http.Request, entityType filter.EntityType, fetch func(context.Context, filter.QueryDescriptor) (any, int, error)) {
	state, err := parseListQuery(h.registry, entityType, r.URL.Query(), h.cfg.Player.PageSize)
	if err != nil {
		code, status := errorCode(err)
		respondError(w, r, status, code, err.Error(), nil)
		return
	}

	qd, err := filter.Build(state, h.registry)
	if err != nil {
		code, status := errorCode(err)
		respondError(w, r, status, code, err.Error(), err)
		return
	}

	fingerprint := qd.Fingerprint()
	if cached, ok := h.cache.Get(fingerprint); ok {
		page := cached.(cachedPage)
		h.respondPage(w, state, page, true)
		return
	}

	items, total, err := fetch(r.Context(), qd)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "upstream query failed", err)
		return
	}

	page := cachedPage{items: items, total: total}
	h.cache.Add(fingerprint, page)
	h.respondPage(w, state, page, false)
}

func (h *Handler) respondPage(w http.ResponseWriter, state filter.State, page cachedPage, cached bool) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data:    page.items,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC(),
			Cached:    cached,
			Pagination: &PaginationMeta{
				Total:   page.total,
				Page:    state.Page(),
				PerPage: state.PageSize(),
			},
		},
	})
}

// fieldInfo describes one filterable field to the UI.
type fieldInfo struct {
	Key        string   `json:"key"`
	Kind       string   `json:"kind"`
	Sortable   bool     `json:"sortable"`
	EnumValues []string `json:"enum_values,omitempty"`
}

// Filters handles GET /api/v1/{entityType}/filters: the field registry
// for one entity type, from which the UI renders its control surface.
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	entityType, err := filter.ParseEntityType(chi.URLParam(r, "entityType"))
	if err != nil {
		code, status := errorCode(err)
		respondError(w, r, status, code, err.Error(), nil)
		return
	}

	descriptors, err := h.registry.Descriptors(entityType)
	if err != nil {
		code, status := errorCode(err)
		respondError(w, r, status, code, err.Error(), nil)
		return
	}

	fields := make([]fieldInfo, 0, len(descriptors))
	for _, d := range descriptors {
		fields = append(fields, fieldInfo{
			Key:        d.Key,
			Kind:       string(d.Kind),
			Sortable:   d.Sortable,
			EnumValues: d.EnumValues,
		})
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data: map[string]any{
			"entity_type": entityType,
			"fields":      fields,
		},
		Meta: &APIMeta{Timestamp: time.Now().UTC()},
	})
}
