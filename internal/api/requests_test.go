// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package api

import (
	"net/url"
	"testing"

	"github.com/tomtom215/stashplayer/internal/filter"
)

func TestParseListQuery_PageSize(t *testing.T) {
	registry := filter.DefaultRegistry()

	tests := []struct {
		name            string
		params          url.Values
		defaultPageSize int
		wantLimit       int
	}{
		{"configured default applies", url.Values{}, 25, 25},
		{"per_page overrides configured default", url.Values{"per_page": {"60"}}, 25, 60},
		{"zero config falls back to package default", url.Values{}, 0, filter.DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := parseListQuery(registry, filter.EntityScene, tt.params, tt.defaultPageSize)
			if err != nil {
				t.Fatalf("parseListQuery() error = %v", err)
			}
			qd, err := filter.Build(state, registry)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if qd.Pagination.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", qd.Pagination.Limit, tt.wantLimit)
			}
		})
	}
}
