// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package filter

import (
	"fmt"
	"time"
)

// Value is the tagged union of filter value shapes. Exactly one of the
// shape fields is meaningful, selected by Kind. Values are validated
// against the field descriptor's declared kind at the Store boundary;
// mismatches are rejected with ErrTypeMismatch rather than coerced.
//
// Construct values through the Text, NumericRange, DateRange, Select, and
// Boolean constructors; a zero Value is not valid.
type Value struct {
	Kind Kind `json:"kind"`

	Text string `json:"text,omitempty"` // KindText

	Min *float64 `json:"min,omitempty"` // KindNumericRange, either bound optional
	Max *float64 `json:"max,omitempty"`

	Start *time.Time `json:"start,omitempty"` // KindDateRange, either bound optional
	End   *time.Time `json:"end,omitempty"`

	Choice string `json:"choice,omitempty"` // KindSelect

	Flag bool `json:"flag,omitempty"` // KindBoolean
}

// Text returns a case-insensitive substring match value.
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// NumericRange returns an inclusive [min, max] bound value. Either bound
// may be nil for an open-ended range.
func NumericRange(min, max *float64) Value {
	return Value{Kind: KindNumericRange, Min: min, Max: max}
}

// DateRange returns an inclusive [start, end] bound value. Either bound
// may be nil for an open-ended range.
func DateRange(start, end *time.Time) Value {
	return Value{Kind: KindDateRange, Start: start, End: end}
}

// Select returns an equality value against one of a field's enum values.
func Select(choice string) Value {
	return Value{Kind: KindSelect, Choice: choice}
}

// Boolean returns an equality value for a boolean field.
func Boolean(b bool) Value {
	return Value{Kind: KindBoolean, Flag: b}
}

// validateAgainst checks that the value's shape matches the descriptor's
// declared kind. For select fields the choice must also be one of the
// declared enum values, and empty ranges (both bounds absent, or inverted
// bounds) are rejected because they cannot express a predicate.
func (v Value) validateAgainst(d FieldDescriptor) error {
	if v.Kind != d.Kind {
		return fmt.Errorf("%w: field %q wants %s, got %s", ErrTypeMismatch, d.Key, d.Kind, v.Kind)
	}

	switch v.Kind {
	case KindText:
		if v.Text == "" {
			return fmt.Errorf("%w: field %q: empty text value", ErrTypeMismatch, d.Key)
		}
	case KindNumericRange:
		if v.Min == nil && v.Max == nil {
			return fmt.Errorf("%w: field %q: numeric range needs at least one bound", ErrTypeMismatch, d.Key)
		}
		if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
			return fmt.Errorf("%w: field %q: min %v exceeds max %v", ErrTypeMismatch, d.Key, *v.Min, *v.Max)
		}
	case KindDateRange:
		if v.Start == nil && v.End == nil {
			return fmt.Errorf("%w: field %q: date range needs at least one bound", ErrTypeMismatch, d.Key)
		}
		if v.Start != nil && v.End != nil && v.Start.After(*v.End) {
			return fmt.Errorf("%w: field %q: start is after end", ErrTypeMismatch, d.Key)
		}
	case KindSelect:
		for _, enum := range d.EnumValues {
			if v.Choice == enum {
				return nil
			}
		}
		return fmt.Errorf("%w: field %q: %q is not an allowed value", ErrTypeMismatch, d.Key, v.Choice)
	case KindBoolean:
		// Any bool is valid.
	default:
		return fmt.Errorf("%w: field %q: unknown kind %q", ErrTypeMismatch, d.Key, v.Kind)
	}

	return nil
}

// Equal reports structural equality of two values, comparing bound
// contents rather than pointer identity.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.Text == o.Text
	case KindNumericRange:
		return floatPtrEqual(v.Min, o.Min) && floatPtrEqual(v.Max, o.Max)
	case KindDateRange:
		return timePtrEqual(v.Start, o.Start) && timePtrEqual(v.End, o.End)
	case KindSelect:
		return v.Choice == o.Choice
	case KindBoolean:
		return v.Flag == o.Flag
	default:
		return false
	}
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
