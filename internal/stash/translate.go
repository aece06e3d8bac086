// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package stash

import (
	"fmt"
	"strings"

	"github.com/tomtom215/stashplayer/internal/filter"
)

// Upstream criterion modifiers. The upstream comparison modifiers are
// strict (GREATER_THAN / LESS_THAN), so inclusive open-ended ranges are
// expressed as BETWEEN against saturating sentinel bounds instead.
const (
	modifierIncludes = "INCLUDES"
	modifierEquals   = "EQUALS"
	modifierBetween  = "BETWEEN"
)

// Sentinel bounds substituted for absent range ends.
const (
	openMinNumber = 0
	openMaxNumber = 2147483647 // int32 max, the widest value upstream accepts

	openMinDate = "1000-01-01"
	openMaxDate = "9999-12-31"
)

const dateLayout = "2006-01-02"

// filterArgName maps an entity type to the upstream find* filter argument.
var filterArgName = map[filter.EntityType]string{
	filter.EntityScene:     "scene_filter",
	filter.EntityPerformer: "performer_filter",
	filter.EntityStudio:    "studio_filter",
	filter.EntityTag:       "tag_filter",
}

// fieldRenames maps registry keys to upstream filter field names where the
// two differ. The performer favourite toggle is the only divergence today.
var fieldRenames = map[filter.EntityType]map[string]string{
	filter.EntityPerformer: {"favorite": "filter_favorites"},
}

// Variables serializes a QueryDescriptor into the GraphQL variables for
// the matching find* query: a FindFilterType under "filter" and the
// per-entity filter object under "scene_filter", "performer_filter", etc.
//
// The translation is deterministic: it only depends on the descriptor,
// which Build already emits in sorted predicate order.
func Variables(qd filter.QueryDescriptor) (map[string]any, error) {
	argName, ok := filterArgName[qd.EntityType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", filter.ErrUnknownEntityType, qd.EntityType)
	}

	entityFilter := make(map[string]any, len(qd.Filter))
	for _, p := range qd.Filter {
		field := upstreamField(qd.EntityType, p.Field)
		criterion, err := criterionFor(p)
		if err != nil {
			return nil, err
		}
		entityFilter[field] = criterion
	}

	return map[string]any{
		"filter": findFilter(qd),
		argName:  entityFilter,
	}, nil
}

// findFilter builds the FindFilterType value: 1-based page, page size,
// and sort key/direction.
func findFilter(qd filter.QueryDescriptor) map[string]any {
	page := 1
	if qd.Pagination.Limit > 0 {
		page = qd.Pagination.Offset/qd.Pagination.Limit + 1
	}
	return map[string]any{
		"page":      page,
		"per_page":  qd.Pagination.Limit,
		"sort":      qd.OrderBy.Key,
		"direction": strings.ToUpper(string(qd.OrderBy.Direction)),
	}
}

// criterionFor translates one predicate into the upstream criterion
// object (or bare value) for its operator.
func criterionFor(p filter.Predicate) (any, error) {
	switch p.Op {
	case filter.OpContains:
		return map[string]any{
			"value":    p.Value.Text,
			"modifier": modifierIncludes,
		}, nil

	case filter.OpBetween:
		if p.Value.Kind == filter.KindDateRange {
			return dateCriterion(p.Value), nil
		}
		return numberCriterion(p.Value), nil

	case filter.OpEquals:
		if p.Value.Kind == filter.KindBoolean {
			// Boolean filters are bare upstream (organized, favourites).
			return p.Value.Flag, nil
		}
		return map[string]any{
			"value":    p.Value.Choice,
			"modifier": modifierEquals,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported predicate operator %q on field %q", p.Op, p.Field)
	}
}

func numberCriterion(v filter.Value) map[string]any {
	min := float64(openMinNumber)
	max := float64(openMaxNumber)
	if v.Min != nil {
		min = *v.Min
	}
	if v.Max != nil {
		max = *v.Max
	}
	return map[string]any{
		"value":    min,
		"value2":   max,
		"modifier": modifierBetween,
	}
}

func dateCriterion(v filter.Value) map[string]any {
	start := openMinDate
	end := openMaxDate
	if v.Start != nil {
		start = v.Start.UTC().Format(dateLayout)
	}
	if v.End != nil {
		end = v.End.UTC().Format(dateLayout)
	}
	return map[string]any{
		"value":    start,
		"value2":   end,
		"modifier": modifierBetween,
	}
}

// upstreamField maps a registry key to the upstream filter field name.
func upstreamField(et filter.EntityType, key string) string {
	if renames, ok := fieldRenames[et]; ok {
		if renamed, ok := renames[key]; ok {
			return renamed
		}
	}
	return key
}
