// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

// Package filter implements the declarative filter, sort, and pagination
// core that drives every catalog list view in Stash Player.
//
// The package is organized around four cooperating pieces:
//
//   - Registry: a static, per-entity table of FieldDescriptor values
//     declaring which fields are filterable/sortable and what value shape
//     each field accepts (text, numeric range, date range, select, boolean).
//
//   - State: an immutable snapshot of one list view's active filters, sort
//     key/direction, and page. All transitions are pure functions exposed
//     through Store; the input State is never mutated and a failed
//     transition returns it unchanged.
//
//   - Build: a deterministic translation of (State, Registry) into a
//     QueryDescriptor - a normalized predicate tree plus order-by and
//     offset/limit pagination - ready for serialization into upstream
//     Stash GraphQL filter arguments by the stash package.
//
//   - Controller: a thin binding layer that exposes the Store transitions
//     as named actions, recomputes the QueryDescriptor after every
//     successful mutation, and notifies a subscriber callback.
//
// Determinism of Build is a contract, not an accident: structurally equal
// states always produce structurally equal (and identically fingerprinted)
// descriptors, which is what allows callers to memoize upstream fetches.
//
// The package performs no I/O and holds no process-wide state. A Registry
// is always passed in explicitly so tests and views can construct their
// own.
package filter
