// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

// Package stash is the network collaborator for the filter core: a
// GraphQL-over-HTTP client for the upstream Stash media server.
//
// The package serializes filter.QueryDescriptor values into Stash's
// filter input types (FindFilterType plus the per-entity *FilterType
// objects), issues find* queries, and decodes typed entity lists. A
// circuit breaker wrapper (sony/gobreaker) protects the player from a
// slow or unavailable upstream, and a token-bucket limiter keeps the
// request rate polite.
package stash
