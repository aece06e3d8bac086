// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package filter

import "errors"

// Sentinel errors returned by the registry and state transitions.
//
// All of these indicate caller mistakes (bad key, wrong value shape,
// negative page), not transient conditions. They are never retried and
// never swallowed: a failed transition surfaces the error and leaves the
// input state untouched.
var (
	// ErrUnknownEntityType indicates an entity type outside the four
	// catalog kinds (scene, performer, studio, tag).
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrUnknownFieldKey indicates a field key absent from the registry
	// for the state's entity type.
	ErrUnknownFieldKey = errors.New("unknown field key")

	// ErrTypeMismatch indicates a filter value whose shape does not match
	// the field descriptor's declared kind. Values are rejected, never
	// coerced.
	ErrTypeMismatch = errors.New("filter value does not match field kind")

	// ErrNotSortable indicates a sort request against a field whose
	// descriptor has Sortable = false.
	ErrNotSortable = errors.New("field is not sortable")

	// ErrInvalidPage indicates a negative page index.
	ErrInvalidPage = errors.New("page index must not be negative")
)
