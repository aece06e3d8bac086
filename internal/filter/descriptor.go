// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package filter

import (
	"fmt"
	"sort"
)

// EntityType identifies one of the four catalog object kinds exposed by
// the upstream Stash server.
type EntityType string

// Supported entity types. ParseEntityType rejects anything else.
const (
	EntityScene     EntityType = "scene"
	EntityPerformer EntityType = "performer"
	EntityStudio    EntityType = "studio"
	EntityTag       EntityType = "tag"
)

// ParseEntityType converts a string (typically a URL path segment) into an
// EntityType, returning ErrUnknownEntityType for anything outside the four
// supported kinds.
func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case EntityScene, EntityPerformer, EntityStudio, EntityTag:
		return EntityType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, s)
	}
}

// Kind declares the value shape a field accepts.
type Kind string

// Field kinds. Each kind maps to exactly one Value constructor and one
// predicate operator in Build.
const (
	// KindText accepts a free-text value and filters by case-insensitive
	// substring match.
	KindText Kind = "text"

	// KindNumericRange accepts an inclusive [min, max] bound pair; either
	// bound may be absent for an open-ended range.
	KindNumericRange Kind = "numeric_range"

	// KindDateRange accepts an inclusive [start, end] date pair; either
	// bound may be absent for an open-ended range.
	KindDateRange Kind = "date_range"

	// KindSelect accepts exactly one of the descriptor's enum values and
	// filters by equality.
	KindSelect Kind = "select"

	// KindBoolean accepts true/false and filters by equality.
	KindBoolean Kind = "boolean"
)

// FieldDescriptor describes one filterable and/or sortable attribute of an
// entity type. Key is the stable identifier matching the upstream Stash
// schema's field name (snake_case, e.g. "performer_count").
type FieldDescriptor struct {
	Key        string   `json:"key"`
	Kind       Kind     `json:"kind"`
	Sortable   bool     `json:"sortable"`
	EnumValues []string `json:"enum_values,omitempty"` // populated only for KindSelect
}

// Registry is a static, per-entity-type table of field descriptors.
// It is immutable after construction and safe for concurrent reads.
type Registry struct {
	sets  map[EntityType][]FieldDescriptor
	index map[EntityType]map[string]FieldDescriptor
}

// NewRegistry builds a Registry from explicit per-entity descriptor sets.
// Keys must be unique within an entity type; duplicates are rejected so a
// misconfigured registry fails at construction rather than at query time.
func NewRegistry(sets map[EntityType][]FieldDescriptor) (*Registry, error) {
	r := &Registry{
		sets:  make(map[EntityType][]FieldDescriptor, len(sets)),
		index: make(map[EntityType]map[string]FieldDescriptor, len(sets)),
	}

	for et, descriptors := range sets {
		if _, err := ParseEntityType(string(et)); err != nil {
			return nil, err
		}

		byKey := make(map[string]FieldDescriptor, len(descriptors))
		for _, d := range descriptors {
			if d.Key == "" {
				return nil, fmt.Errorf("%s: descriptor with empty key", et)
			}
			if _, dup := byKey[d.Key]; dup {
				return nil, fmt.Errorf("%s: duplicate field key %q", et, d.Key)
			}
			if d.Kind == KindSelect && len(d.EnumValues) == 0 {
				return nil, fmt.Errorf("%s: select field %q has no enum values", et, d.Key)
			}
			byKey[d.Key] = d
		}

		set := make([]FieldDescriptor, len(descriptors))
		copy(set, descriptors)
		r.sets[et] = set
		r.index[et] = byKey
	}

	return r, nil
}

// Descriptors returns the ordered descriptor set for an entity type.
// The returned slice is a copy; callers may not mutate registry state.
func (r *Registry) Descriptors(entityType EntityType) ([]FieldDescriptor, error) {
	set, ok := r.sets[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}
	out := make([]FieldDescriptor, len(set))
	copy(out, set)
	return out, nil
}

// Lookup returns the descriptor for a single field key.
func (r *Registry) Lookup(entityType EntityType, key string) (FieldDescriptor, bool) {
	byKey, ok := r.index[entityType]
	if !ok {
		return FieldDescriptor{}, false
	}
	d, ok := byKey[key]
	return d, ok
}

// EntityTypes returns the entity types the registry covers, sorted for
// deterministic iteration.
func (r *Registry) EntityTypes() []EntityType {
	out := make([]EntityType, 0, len(r.sets))
	for et := range r.sets {
		out = append(out, et)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// genderValues mirrors the upstream GenderEnum.
var genderValues = []string{
	"MALE", "FEMALE", "TRANSGENDER_MALE", "TRANSGENDER_FEMALE", "INTERSEX", "NON_BINARY",
}

// resolutionValues mirrors the upstream ResolutionEnum buckets used by the
// scene browser.
var resolutionValues = []string{
	"STANDARD", "STANDARD_HD", "FULL_HD", "QUAD_HD", "FOUR_K",
}

// DefaultRegistry returns the registry mirroring the portion of the Stash
// schema the player exposes as filter controls. List views that need a
// different field set construct their own registry via NewRegistry.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(map[EntityType][]FieldDescriptor{
		EntityScene: {
			{Key: "id", Kind: KindText},
			{Key: "title", Kind: KindText, Sortable: true},
			{Key: "details", Kind: KindText},
			{Key: "date", Kind: KindDateRange, Sortable: true},
			{Key: "rating100", Kind: KindNumericRange, Sortable: true},
			{Key: "duration", Kind: KindNumericRange, Sortable: true},
			{Key: "performer_count", Kind: KindNumericRange, Sortable: true},
			{Key: "tag_count", Kind: KindNumericRange, Sortable: true},
			{Key: "play_count", Kind: KindNumericRange, Sortable: true},
			{Key: "resolution", Kind: KindSelect, EnumValues: resolutionValues},
			{Key: "organized", Kind: KindBoolean},
			{Key: "created_at", Kind: KindDateRange, Sortable: true},
		},
		EntityPerformer: {
			{Key: "id", Kind: KindText},
			{Key: "name", Kind: KindText, Sortable: true},
			{Key: "birthdate", Kind: KindDateRange, Sortable: true},
			{Key: "rating100", Kind: KindNumericRange, Sortable: true},
			{Key: "scene_count", Kind: KindNumericRange, Sortable: true},
			{Key: "gender", Kind: KindSelect, EnumValues: genderValues},
			{Key: "favorite", Kind: KindBoolean},
			{Key: "created_at", Kind: KindDateRange, Sortable: true},
		},
		EntityStudio: {
			{Key: "id", Kind: KindText},
			{Key: "name", Kind: KindText, Sortable: true},
			{Key: "rating100", Kind: KindNumericRange, Sortable: true},
			{Key: "scene_count", Kind: KindNumericRange, Sortable: true},
			{Key: "favorite", Kind: KindBoolean},
			{Key: "created_at", Kind: KindDateRange, Sortable: true},
		},
		EntityTag: {
			{Key: "id", Kind: KindText},
			{Key: "name", Kind: KindText, Sortable: true},
			{Key: "scene_count", Kind: KindNumericRange, Sortable: true},
			{Key: "favorite", Kind: KindBoolean},
			{Key: "created_at", Kind: KindDateRange, Sortable: true},
		},
	})
	if err != nil {
		// The default sets are compile-time constants; a failure here is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("filter: invalid default registry: %v", err))
	}
	return r
}
