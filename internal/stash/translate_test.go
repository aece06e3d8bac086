// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package stash

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/stashplayer/internal/filter"
)

func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

func TestVariablesPagination(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		limit    int
		wantPage int
	}{
		{name: "first page", offset: 0, limit: 40, wantPage: 1},
		{name: "third page", offset: 80, limit: 40, wantPage: 3},
		{name: "uneven page size", offset: 50, limit: 25, wantPage: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qd := filter.QueryDescriptor{
				EntityType: filter.EntityScene,
				OrderBy:    filter.Sort{Key: "created_at", Direction: filter.Descending},
				Pagination: filter.Pagination{Offset: tt.offset, Limit: tt.limit},
			}

			vars, err := Variables(qd)
			if err != nil {
				t.Fatalf("Variables() error = %v", err)
			}

			ff, ok := vars["filter"].(map[string]any)
			if !ok {
				t.Fatalf("missing filter variable: %v", vars)
			}
			if got := ff["page"]; got != tt.wantPage {
				t.Errorf("page = %v, want %d", got, tt.wantPage)
			}
			if got := ff["per_page"]; got != tt.limit {
				t.Errorf("per_page = %v, want %d", got, tt.limit)
			}
			if got := ff["direction"]; got != "DESC" {
				t.Errorf("direction = %v, want DESC", got)
			}
		})
	}
}

func TestVariablesOpenEndedNumericRange(t *testing.T) {
	qd := filter.QueryDescriptor{
		EntityType: filter.EntityScene,
		Filter: []filter.Predicate{
			{
				Field: "performer_count",
				Op:    filter.OpBetween,
				Value: filter.NumericRange(floatPtr(2), nil),
			},
		},
		OrderBy:    filter.Sort{Key: "created_at", Direction: filter.Descending},
		Pagination: filter.Pagination{Offset: 0, Limit: 40},
	}

	vars, err := Variables(qd)
	if err != nil {
		t.Fatalf("Variables() error = %v", err)
	}

	sceneFilter, ok := vars["scene_filter"].(map[string]any)
	if !ok {
		t.Fatalf("missing scene_filter variable: %v", vars)
	}

	want := map[string]any{
		"value":    float64(2),
		"value2":   float64(2147483647),
		"modifier": "BETWEEN",
	}
	if got := sceneFilter["performer_count"]; !reflect.DeepEqual(got, want) {
		t.Errorf("performer_count criterion = %v, want %v", got, want)
	}
}

func TestVariablesDateRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	qd := filter.QueryDescriptor{
		EntityType: filter.EntityScene,
		Filter: []filter.Predicate{
			{
				Field: "date",
				Op:    filter.OpBetween,
				Value: filter.DateRange(timePtr(start), nil),
			},
		},
		OrderBy:    filter.Sort{Key: "date", Direction: filter.Ascending},
		Pagination: filter.Pagination{Offset: 0, Limit: 40},
	}

	vars, err := Variables(qd)
	if err != nil {
		t.Fatalf("Variables() error = %v", err)
	}

	sceneFilter := vars["scene_filter"].(map[string]any)
	want := map[string]any{
		"value":    "2024-01-01",
		"value2":   "9999-12-31",
		"modifier": "BETWEEN",
	}
	if got := sceneFilter["date"]; !reflect.DeepEqual(got, want) {
		t.Errorf("date criterion = %v, want %v", got, want)
	}
}

func TestVariablesTextAndSelect(t *testing.T) {
	qd := filter.QueryDescriptor{
		EntityType: filter.EntityScene,
		Filter: []filter.Predicate{
			{Field: "title", Op: filter.OpContains, Value: filter.Text("beach")},
			{Field: "resolution", Op: filter.OpEquals, Value: filter.Select("FULL_HD")},
		},
		OrderBy:    filter.Sort{Key: "created_at", Direction: filter.Descending},
		Pagination: filter.Pagination{Offset: 0, Limit: 40},
	}

	vars, err := Variables(qd)
	if err != nil {
		t.Fatalf("Variables() error = %v", err)
	}

	sceneFilter := vars["scene_filter"].(map[string]any)

	wantTitle := map[string]any{"value": "beach", "modifier": "INCLUDES"}
	if got := sceneFilter["title"]; !reflect.DeepEqual(got, wantTitle) {
		t.Errorf("title criterion = %v, want %v", got, wantTitle)
	}

	wantRes := map[string]any{"value": "FULL_HD", "modifier": "EQUALS"}
	if got := sceneFilter["resolution"]; !reflect.DeepEqual(got, wantRes) {
		t.Errorf("resolution criterion = %v, want %v", got, wantRes)
	}
}

func TestVariablesBooleanIsBare(t *testing.T) {
	qd := filter.QueryDescriptor{
		EntityType: filter.EntityScene,
		Filter: []filter.Predicate{
			{Field: "organized", Op: filter.OpEquals, Value: filter.Boolean(true)},
		},
		OrderBy:    filter.Sort{Key: "created_at", Direction: filter.Descending},
		Pagination: filter.Pagination{Offset: 0, Limit: 40},
	}

	vars, err := Variables(qd)
	if err != nil {
		t.Fatalf("Variables() error = %v", err)
	}

	sceneFilter := vars["scene_filter"].(map[string]any)
	if got := sceneFilter["organized"]; got != true {
		t.Errorf("organized = %v, want bare true", got)
	}
}

func TestVariablesPerformerFavoriteRename(t *testing.T) {
	qd := filter.QueryDescriptor{
		EntityType: filter.EntityPerformer,
		Filter: []filter.Predicate{
			{Field: "favorite", Op: filter.OpEquals, Value: filter.Boolean(true)},
		},
		OrderBy:    filter.Sort{Key: "name", Direction: filter.Ascending},
		Pagination: filter.Pagination{Offset: 0, Limit: 40},
	}

	vars, err := Variables(qd)
	if err != nil {
		t.Fatalf("Variables() error = %v", err)
	}

	pf := vars["performer_filter"].(map[string]any)
	if _, ok := pf["favorite"]; ok {
		t.Error("favorite should be renamed to filter_favorites upstream")
	}
	if got := pf["filter_favorites"]; got != true {
		t.Errorf("filter_favorites = %v, want true", got)
	}
}

func TestVariablesUnknownEntityType(t *testing.T) {
	qd := filter.QueryDescriptor{EntityType: filter.EntityType("gallery")}

	_, err := Variables(qd)
	if !errors.Is(err, filter.ErrUnknownEntityType) {
		t.Errorf("Variables() error = %v, want ErrUnknownEntityType", err)
	}
}

func TestVariablesFromBuiltState(t *testing.T) {
	// End to end: Store transitions -> Build -> Variables.
	reg := filter.DefaultRegistry()
	store := filter.NewStore(reg, 40)

	state, err := store.New(filter.EntityScene)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	state, err = store.SetFilterValue(state, "performer_count", filter.NumericRange(floatPtr(2), nil))
	if err != nil {
		t.Fatalf("SetFilterValue() error = %v", err)
	}

	qd, err := filter.Build(state, reg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	vars, err := Variables(qd)
	if err != nil {
		t.Fatalf("Variables() error = %v", err)
	}

	ff := vars["filter"].(map[string]any)
	if got := ff["page"]; got != 1 {
		t.Errorf("page = %v, want 1 after filter change", got)
	}
	if got := ff["sort"]; got != "created_at" {
		t.Errorf("sort = %v, want default created_at", got)
	}
}
