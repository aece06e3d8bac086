// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package filter

import (
	"fmt"
	"strings"
	"time"
)

// Op is the predicate operator derived from a field's kind.
type Op string

const (
	// OpContains is a case-insensitive substring match (text fields).
	OpContains Op = "contains"

	// OpBetween is an inclusive range bound; either side may be open
	// (numeric and date range fields).
	OpBetween Op = "between"

	// OpEquals is an equality match (select and boolean fields).
	OpEquals Op = "equals"
)

// Predicate is one per-field condition of a query's filter expression.
type Predicate struct {
	Field string `json:"field"`
	Op    Op     `json:"op"`
	Value Value  `json:"value"`
}

// Pagination is the offset/limit window derived from the state's page.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// QueryDescriptor is the derived, immutable snapshot handed to the data
// fetching layer. Filter is a boolean-AND combination of predicates in
// deterministic (key-sorted) order; an empty Filter matches everything.
//
// Descriptors are recomputed wholesale on every state change, never
// mutated in place.
type QueryDescriptor struct {
	EntityType EntityType  `json:"entity_type"`
	Filter     []Predicate `json:"filter,omitempty"`
	OrderBy    Sort        `json:"order_by"`
	Pagination Pagination  `json:"pagination"`
}

// Canonical default sort applied when the state carries no explicit sort.
const (
	DefaultSortKey       = "created_at"
	DefaultSortDirection = Descending
)

// Build translates a State into a QueryDescriptor against the given
// registry.
//
// Build is deterministic and side-effect-free: structurally equal states
// always produce structurally equal descriptors (predicates are emitted in
// sorted key order), which is the property that lets callers memoize the
// upstream fetch keyed on Fingerprint.
//
// The registry is normally the one the State was built against, in which
// case Build cannot fail; passing a registry that does not know one of the
// state's keys yields ErrUnknownFieldKey rather than silently dropping the
// predicate.
func Build(s State, registry *Registry) (QueryDescriptor, error) {
	qd := QueryDescriptor{
		EntityType: s.entityType,
		OrderBy:    s.sort,
		Pagination: Pagination{
			Offset: s.page * s.pageSize,
			Limit:  s.pageSize,
		},
	}

	if qd.OrderBy == (Sort{}) {
		qd.OrderBy = Sort{Key: DefaultSortKey, Direction: DefaultSortDirection}
	}

	for _, key := range s.FilterKeys() {
		d, ok := registry.Lookup(s.entityType, key)
		if !ok {
			return QueryDescriptor{}, fmt.Errorf("%w: %q (%s)", ErrUnknownFieldKey, key, s.entityType)
		}

		value := s.values[key]
		qd.Filter = append(qd.Filter, Predicate{
			Field: key,
			Op:    opForKind(d.Kind),
			Value: value,
		})
	}

	return qd, nil
}

// opForKind maps a field kind to its predicate operator.
func opForKind(k Kind) Op {
	switch k {
	case KindText:
		return OpContains
	case KindNumericRange, KindDateRange:
		return OpBetween
	default:
		return OpEquals
	}
}

// Fingerprint returns a stable, human-readable identity string for the
// descriptor. Equal descriptors always produce equal fingerprints, so the
// fingerprint is a valid cache key for upstream query results.
func (qd QueryDescriptor) Fingerprint() string {
	var b strings.Builder
	b.WriteString(string(qd.EntityType))
	fmt.Fprintf(&b, "|sort=%s:%s", qd.OrderBy.Key, qd.OrderBy.Direction)
	fmt.Fprintf(&b, "|page=%d:%d", qd.Pagination.Offset, qd.Pagination.Limit)

	for _, p := range qd.Filter {
		fmt.Fprintf(&b, "|%s %s ", p.Field, p.Op)
		writeValueFingerprint(&b, p.Value)
	}

	return b.String()
}

// writeValueFingerprint serializes a value deterministically. Absent range
// bounds serialize as "*" to distinguish open bounds from zero bounds.
func writeValueFingerprint(b *strings.Builder, v Value) {
	switch v.Kind {
	case KindText:
		b.WriteString(v.Text)
	case KindNumericRange:
		b.WriteString(fingerprintFloat(v.Min))
		b.WriteString("..")
		b.WriteString(fingerprintFloat(v.Max))
	case KindDateRange:
		b.WriteString(fingerprintTime(v.Start))
		b.WriteString("..")
		b.WriteString(fingerprintTime(v.End))
	case KindSelect:
		b.WriteString(v.Choice)
	case KindBoolean:
		fmt.Fprintf(b, "%t", v.Flag)
	}
}

func fingerprintFloat(f *float64) string {
	if f == nil {
		return "*"
	}
	return fmt.Sprintf("%g", *f)
}

func fingerprintTime(t *time.Time) string {
	if t == nil {
		return "*"
	}
	return t.UTC().Format(time.RFC3339)
}

// Equal reports structural equality of two descriptors.
func (qd QueryDescriptor) Equal(o QueryDescriptor) bool {
	if qd.EntityType != o.EntityType || qd.OrderBy != o.OrderBy || qd.Pagination != o.Pagination {
		return false
	}
	if len(qd.Filter) != len(o.Filter) {
		return false
	}
	for i, p := range qd.Filter {
		op := o.Filter[i]
		if p.Field != op.Field || p.Op != op.Op || !p.Value.Equal(op.Value) {
			return false
		}
	}
	return true
}
