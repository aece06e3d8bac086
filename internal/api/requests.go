// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tomtom215/stashplayer/internal/filter"
)

// Query parameter conventions, derived from the field registry:
//
//	text      ?title=beach
//	numeric   ?rating100_min=50&rating100_max=90   (either bound optional)
//	date      ?date_from=2024-01-01&date_to=2024-06-30
//	select    ?resolution=FULL_HD
//	boolean   ?organized=true
//	sorting   ?sort=created_at&direction=desc
//	paging    ?page=0&per_page=40
//
// Unknown parameters are rejected so typos fail loudly instead of
// silently widening the result set.

const (
	paramSort      = "sort"
	paramDirection = "direction"
	paramPage      = "page"
	paramPerPage   = "per_page"

	rangeMinSuffix = "_min"
	rangeMaxSuffix = "_max"
	dateFromSuffix = "_from"
	dateToSuffix   = "_to"
)

const queryDateLayout = "2006-01-02"

// parseListQuery builds a filter state for one catalog listing request.
// Parameters apply through the store's pure transitions, so any failure
// surfaces before the upstream is contacted. defaultPageSize applies when
// the request carries no per_page; zero falls back to the package default.
func parseListQuery(registry *filter.Registry, entityType filter.EntityType, params url.Values, defaultPageSize int) (filter.State, error) {
	pageSize := defaultPageSize
	if pageSize <= 0 {
		pageSize = filter.DefaultPageSize
	}
	if raw := params.Get(paramPerPage); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > filter.MaxPageSize {
			return filter.State{}, fmt.Errorf("per_page must be an integer in [1, %d]", filter.MaxPageSize)
		}
		pageSize = n
	}

	store := filter.NewStore(registry, pageSize)
	state, err := store.New(entityType)
	if err != nil {
		return filter.State{}, err
	}

	descriptors, err := registry.Descriptors(entityType)
	if err != nil {
		return filter.State{}, err
	}

	consumed := make(map[string]bool, len(params))

	for _, d := range descriptors {
		value, keys, ok, err := valueFromParams(d, params)
		if err != nil {
			return filter.State{}, err
		}
		for _, k := range keys {
			consumed[k] = true
		}
		if !ok {
			continue
		}
		state, err = store.SetFilterValue(state, d.Key, value)
		if err != nil {
			return filter.State{}, err
		}
	}

	// Sorting before paging: SetSort preserves the page, SetPage applies
	// the explicitly requested page last.
	if sortKey := params.Get(paramSort); sortKey != "" {
		direction := filter.Descending
		if raw := params.Get(paramDirection); raw != "" {
			direction, err = filter.ParseDirection(raw)
			if err != nil {
				return filter.State{}, err
			}
		}
		state, err = store.SetSort(state, sortKey, direction)
		if err != nil {
			return filter.State{}, err
		}
	} else if params.Get(paramDirection) != "" {
		return filter.State{}, fmt.Errorf("direction requires sort")
	}

	if raw := params.Get(paramPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return filter.State{}, fmt.Errorf("page must be an integer")
		}
		state, err = store.SetPage(state, page)
		if err != nil {
			return filter.State{}, err
		}
	}

	for _, reserved := range []string{paramSort, paramDirection, paramPage, paramPerPage} {
		consumed[reserved] = true
	}
	for key := range params {
		if !consumed[key] {
			return filter.State{}, fmt.Errorf("%w: %q", filter.ErrUnknownFieldKey, key)
		}
	}

	return state, nil
}

// valueFromParams reads the parameter(s) of one field. Returns the
// parameter names it owns so unknown-parameter detection can skip them.
func valueFromParams(d filter.FieldDescriptor, params url.Values) (filter.Value, []string, bool, error) {
	switch d.Kind {
	case filter.KindText:
		if raw := params.Get(d.Key); raw != "" {
			return filter.Text(raw), []string{d.Key}, true, nil
		}
		return filter.Value{}, []string{d.Key}, false, nil

	case filter.KindSelect:
		if raw := params.Get(d.Key); raw != "" {
			return filter.Select(raw), []string{d.Key}, true, nil
		}
		return filter.Value{}, []string{d.Key}, false, nil

	case filter.KindBoolean:
		keys := []string{d.Key}
		raw := params.Get(d.Key)
		if raw == "" {
			return filter.Value{}, keys, false, nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return filter.Value{}, keys, false, fmt.Errorf("%s must be a boolean", d.Key)
		}
		return filter.Boolean(b), keys, true, nil

	case filter.KindNumericRange:
		minKey, maxKey := d.Key+rangeMinSuffix, d.Key+rangeMaxSuffix
		keys := []string{minKey, maxKey}
		minPtr, err := floatParam(params, minKey)
		if err != nil {
			return filter.Value{}, keys, false, err
		}
		maxPtr, err := floatParam(params, maxKey)
		if err != nil {
			return filter.Value{}, keys, false, err
		}
		if minPtr == nil && maxPtr == nil {
			return filter.Value{}, keys, false, nil
		}
		return filter.NumericRange(minPtr, maxPtr), keys, true, nil

	case filter.KindDateRange:
		fromKey, toKey := d.Key+dateFromSuffix, d.Key+dateToSuffix
		keys := []string{fromKey, toKey}
		fromPtr, err := dateParam(params, fromKey)
		if err != nil {
			return filter.Value{}, keys, false, err
		}
		toPtr, err := dateParam(params, toKey)
		if err != nil {
			return filter.Value{}, keys, false, err
		}
		if fromPtr == nil && toPtr == nil {
			return filter.Value{}, keys, false, nil
		}
		return filter.DateRange(fromPtr, toPtr), keys, true, nil

	default:
		return filter.Value{}, nil, false, fmt.Errorf("unhandled field kind %q", d.Kind)
	}
}

func floatParam(params url.Values, key string) (*float64, error) {
	raw := params.Get(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}

func dateParam(params url.Values, key string) (*time.Time, error) {
	raw := params.Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date in YYYY-MM-DD form", key)
	}
	return &t, nil
}

// errorCode maps a request parsing failure to its machine-readable code
// and HTTP status.
func errorCode(err error) (string, int) {
	switch {
	case errors.Is(err, filter.ErrUnknownEntityType):
		return "UNKNOWN_ENTITY_TYPE", http.StatusBadRequest
	case errors.Is(err, filter.ErrUnknownFieldKey):
		return "UNKNOWN_FIELD_KEY", http.StatusBadRequest
	case errors.Is(err, filter.ErrTypeMismatch):
		return "TYPE_MISMATCH", http.StatusBadRequest
	case errors.Is(err, filter.ErrNotSortable):
		return "NOT_SORTABLE", http.StatusBadRequest
	case errors.Is(err, filter.ErrInvalidPage):
		return "INVALID_PAGE", http.StatusBadRequest
	default:
		return "BAD_REQUEST", http.StatusBadRequest
	}
}
