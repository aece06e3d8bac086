// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package filter

// Controller binds a Store and one list view's State, exposing the state
// transitions as named actions and recomputing the QueryDescriptor after
// every successful mutation.
//
// The controller implements the "state changed -> recompute -> notify"
// contract: onChange (if set) is invoked with the fresh descriptor after
// each mutation that succeeds. Failed mutations leave both the state and
// the descriptor untouched and do not notify.
//
// A Controller is owned by exactly one view at a time and is not
// goroutine-safe; because every transition replaces the whole state, two
// views never share mutable data and no locking discipline is needed.
type Controller struct {
	store    *Store
	state    State
	query    QueryDescriptor
	onChange func(QueryDescriptor)
}

// NewController creates a controller for one entity list view with the
// default state and an optional change subscriber. onChange may be nil.
func NewController(store *Store, entityType EntityType, onChange func(QueryDescriptor)) (*Controller, error) {
	state, err := store.New(entityType)
	if err != nil {
		return nil, err
	}
	query, err := Build(state, store.Registry())
	if err != nil {
		return nil, err
	}
	return &Controller{
		store:    store,
		state:    state,
		query:    query,
		onChange: onChange,
	}, nil
}

// State returns the current state snapshot.
func (c *Controller) State() State { return c.state }

// Query returns the current query descriptor.
func (c *Controller) Query() QueryDescriptor { return c.query }

// ApplyFilter sets a filter value and resets to the first page.
func (c *Controller) ApplyFilter(key string, value Value) error {
	next, err := c.store.SetFilterValue(c.state, key, value)
	if err != nil {
		return err
	}
	return c.commit(next)
}

// ClearFilter removes a filter value and resets to the first page.
func (c *Controller) ClearFilter(key string) error {
	return c.commit(c.store.ClearFilterValue(c.state, key))
}

// ChangeSort sets the sort key and direction, preserving the page.
func (c *Controller) ChangeSort(key string, direction Direction) error {
	next, err := c.store.SetSort(c.state, key, direction)
	if err != nil {
		return err
	}
	return c.commit(next)
}

// GoToPage moves to the given zero-based page.
func (c *Controller) GoToPage(page int) error {
	next, err := c.store.SetPage(c.state, page)
	if err != nil {
		return err
	}
	return c.commit(next)
}

// Reset returns the view to its default state.
func (c *Controller) Reset() error {
	next, err := c.store.New(c.state.entityType)
	if err != nil {
		return err
	}
	return c.commit(next)
}

// commit replaces the state, recomputes the descriptor, and notifies the
// subscriber. Build can only fail if the store's registry does not match
// the state, which commit surfaces rather than keeping a stale descriptor.
func (c *Controller) commit(next State) error {
	query, err := Build(next, c.store.Registry())
	if err != nil {
		return err
	}
	c.state = next
	c.query = query
	if c.onChange != nil {
		c.onChange(query)
	}
	return nil
}
