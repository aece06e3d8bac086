// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package filter

import (
	"fmt"
	"sort"
)

// Sort direction constants.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection converts a string into a Direction, defaulting empty
// input to Ascending and rejecting anything else.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Ascending, Descending:
		return Direction(s), nil
	case "":
		return Ascending, nil
	default:
		return "", fmt.Errorf("invalid sort direction %q", s)
	}
}

// Sort is a (key, direction) pair. A zero Sort means "use the canonical
// default" (created_at descending).
type Sort struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Page size bounds. PageSize requests outside [1, MaxPageSize] fall back
// to DefaultPageSize.
const (
	DefaultPageSize = 40
	MaxPageSize     = 200
)

// State is an immutable snapshot of one list view's filter, sort, and
// pagination settings. Transitions go through Store and always return a
// fresh State; the receiver is never modified, so a State value may be
// freely shared, compared, and kept for undo.
type State struct {
	entityType EntityType
	values     map[string]Value
	sort       Sort
	page       int
	pageSize   int
}

// EntityType returns the entity type the state was created for.
func (s State) EntityType() EntityType { return s.entityType }

// Value returns the active filter value for a key, if set.
func (s State) Value(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// FilterKeys returns the keys with active filter values, sorted.
func (s State) FilterKeys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sort returns the active sort. A zero Sort means the canonical default.
func (s State) Sort() Sort { return s.sort }

// Page returns the zero-based page index.
func (s State) Page() int { return s.page }

// PageSize returns the page size.
func (s State) PageSize() int { return s.pageSize }

// Equal reports structural equality of two states.
func (s State) Equal(o State) bool {
	if s.entityType != o.entityType || s.sort != o.sort || s.page != o.page || s.pageSize != o.pageSize {
		return false
	}
	if len(s.values) != len(o.values) {
		return false
	}
	for k, v := range s.values {
		ov, ok := o.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// withValues returns a copy of the state with a replaced values map.
func (s State) withValues(values map[string]Value) State {
	s.values = values
	return s
}

// copyValues returns a fresh copy of the state's values map.
func (s State) copyValues() map[string]Value {
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Store exposes the pure state transitions for one registry. The registry
// reference is the store's only state; Store itself is stateless and safe
// for concurrent use.
type Store struct {
	registry *Registry
	pageSize int
}

// NewStore creates a Store over the given registry. pageSize outside
// [1, MaxPageSize] falls back to DefaultPageSize.
func NewStore(registry *Registry, pageSize int) *Store {
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return &Store{registry: registry, pageSize: pageSize}
}

// Registry returns the registry the store validates against.
func (st *Store) Registry() *Registry { return st.registry }

// New returns the default state for an entity type: no active filters,
// canonical sort, page zero.
func (st *Store) New(entityType EntityType) (State, error) {
	if _, ok := st.registry.index[entityType]; !ok {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}
	return State{
		entityType: entityType,
		values:     map[string]Value{},
		page:       0,
		pageSize:   st.pageSize,
	}, nil
}

// SetFilterValue returns a new state with values[key] = value and the page
// reset to zero. Changing a filter always returns the user to the first
// page; that reset is an invariant of the view model, not a side effect.
//
// Fails with ErrUnknownFieldKey if the key is absent from the registry for
// the state's entity type, and ErrTypeMismatch if the value's shape does
// not match the descriptor's kind.
func (st *Store) SetFilterValue(s State, key string, value Value) (State, error) {
	d, ok := st.registry.Lookup(s.entityType, key)
	if !ok {
		return s, fmt.Errorf("%w: %q (%s)", ErrUnknownFieldKey, key, s.entityType)
	}
	if err := value.validateAgainst(d); err != nil {
		return s, err
	}

	values := s.copyValues()
	values[key] = value
	next := s.withValues(values)
	next.page = 0
	return next, nil
}

// ClearFilterValue returns a new state with key removed from the active
// values and the page reset to zero. Clearing an absent key is a no-op:
// the input state comes back unchanged, page included, so clear-after-clear
// is idempotent.
func (st *Store) ClearFilterValue(s State, key string) State {
	if _, present := s.values[key]; !present {
		return s
	}

	values := s.copyValues()
	delete(values, key)
	next := s.withValues(values)
	next.page = 0
	return next
}

// SetSort returns a new state with the given sort. The page is preserved:
// re-ordering a list does not move the user off their current page.
//
// Fails with ErrUnknownFieldKey for keys absent from the registry and
// ErrNotSortable for fields whose descriptor is not sortable.
func (st *Store) SetSort(s State, key string, direction Direction) (State, error) {
	d, ok := st.registry.Lookup(s.entityType, key)
	if !ok {
		return s, fmt.Errorf("%w: %q (%s)", ErrUnknownFieldKey, key, s.entityType)
	}
	if !d.Sortable {
		return s, fmt.Errorf("%w: %q", ErrNotSortable, key)
	}
	if direction != Ascending && direction != Descending {
		direction = Ascending
	}

	next := s
	next.sort = Sort{Key: key, Direction: direction}
	return next, nil
}

// SetPage returns a new state on the given zero-based page. Fails with
// ErrInvalidPage for negative indexes.
func (st *Store) SetPage(s State, page int) (State, error) {
	if page < 0 {
		return s, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	next := s
	next.page = page
	return next, nil
}
