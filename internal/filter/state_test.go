// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package filter

import (
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(DefaultRegistry(), DefaultPageSize)
}

func mustState(t *testing.T, st *Store, et EntityType) State {
	t.Helper()
	s, err := st.New(et)
	if err != nil {
		t.Fatalf("New(%s): %v", et, err)
	}
	return s
}

func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

func TestStore_New_Defaults(t *testing.T) {
	st := newTestStore(t)

	s := mustState(t, st, EntityScene)

	if s.EntityType() != EntityScene {
		t.Errorf("entity type = %q, want %q", s.EntityType(), EntityScene)
	}
	if len(s.FilterKeys()) != 0 {
		t.Errorf("expected empty filter values, got %v", s.FilterKeys())
	}
	if s.Sort() != (Sort{}) {
		t.Errorf("expected zero sort, got %+v", s.Sort())
	}
	if s.Page() != 0 {
		t.Errorf("page = %d, want 0", s.Page())
	}
	if s.PageSize() != DefaultPageSize {
		t.Errorf("page size = %d, want %d", s.PageSize(), DefaultPageSize)
	}
}

func TestStore_New_UnknownEntityType(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.New(EntityType("album")); !errors.Is(err, ErrUnknownEntityType) {
		t.Errorf("expected ErrUnknownEntityType, got %v", err)
	}
}

func TestStore_SetFilterValue_ValidShapes(t *testing.T) {
	st := newTestStore(t)

	tests := []struct {
		name  string
		et    EntityType
		key   string
		value Value
	}{
		{"text", EntityScene, "title", Text("beach")},
		{"numeric range both bounds", EntityScene, "rating100", NumericRange(floatPtr(50), floatPtr(100))},
		{"numeric range open max", EntityScene, "performer_count", NumericRange(floatPtr(2), nil)},
		{"numeric range open min", EntityScene, "duration", NumericRange(nil, floatPtr(3600))},
		{"date range", EntityScene, "date", DateRange(timePtr(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)), nil)},
		{"select", EntityPerformer, "gender", Select("FEMALE")},
		{"boolean", EntityPerformer, "favorite", Boolean(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustState(t, st, tt.et)
			s, err := st.SetPage(s, 3)
			if err != nil {
				t.Fatalf("SetPage: %v", err)
			}

			next, err := st.SetFilterValue(s, tt.key, tt.value)
			if err != nil {
				t.Fatalf("SetFilterValue(%q): %v", tt.key, err)
			}

			got, ok := next.Value(tt.key)
			if !ok {
				t.Fatalf("value for %q not present after set", tt.key)
			}
			if !got.Equal(tt.value) {
				t.Errorf("value = %+v, want %+v", got, tt.value)
			}
			if next.Page() != 0 {
				t.Errorf("page = %d, want 0 after filter change", next.Page())
			}
			// Input state must be untouched.
			if s.Page() != 3 {
				t.Errorf("input state page mutated to %d", s.Page())
			}
			if _, ok := s.Value(tt.key); ok {
				t.Errorf("input state gained value for %q", tt.key)
			}
		})
	}
}

func TestStore_SetFilterValue_Errors(t *testing.T) {
	st := newTestStore(t)

	tests := []struct {
		name    string
		et      EntityType
		key     string
		value   Value
		wantErr error
	}{
		{"unknown key", EntityScene, "bogus_field", Text("x"), ErrUnknownFieldKey},
		{"text for range field", EntityScene, "performer_count", Text("two"), ErrTypeMismatch},
		{"range for text field", EntityScene, "title", NumericRange(floatPtr(1), nil), ErrTypeMismatch},
		{"empty text", EntityScene, "title", Text(""), ErrTypeMismatch},
		{"empty range", EntityScene, "rating100", NumericRange(nil, nil), ErrTypeMismatch},
		{"inverted range", EntityScene, "rating100", NumericRange(floatPtr(90), floatPtr(10)), ErrTypeMismatch},
		{"bad enum choice", EntityPerformer, "gender", Select("OTHER"), ErrTypeMismatch},
		{"bool for select field", EntityPerformer, "gender", Boolean(true), ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustState(t, st, tt.et)

			next, err := st.SetFilterValue(s, tt.key, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if !next.Equal(s) {
				t.Errorf("failed transition changed the state")
			}
		})
	}
}

func TestStore_ClearFilterValue_Idempotent(t *testing.T) {
	st := newTestStore(t)
	s := mustState(t, st, EntityScene)

	s, err := st.SetFilterValue(s, "title", Text("beach"))
	if err != nil {
		t.Fatalf("SetFilterValue: %v", err)
	}

	once := st.ClearFilterValue(s, "title")
	twice := st.ClearFilterValue(once, "title")

	if _, ok := once.Value("title"); ok {
		t.Error("value still present after clear")
	}
	if !once.Equal(twice) {
		t.Error("clear is not idempotent")
	}
	if once.Page() != 0 {
		t.Errorf("page = %d, want 0 after clear", once.Page())
	}
}

func TestStore_ClearFilterValue_AbsentKeyIsNoOp(t *testing.T) {
	st := newTestStore(t)
	s := mustState(t, st, EntityScene)

	s, err := st.SetPage(s, 3)
	if err != nil {
		t.Fatalf("SetPage: %v", err)
	}

	cleared := st.ClearFilterValue(s, "title")

	if !cleared.Equal(s) {
		t.Error("clear of absent key changed the state")
	}
	if cleared.Page() != 3 {
		t.Errorf("page = %d, want 3 (absent-key clear must not reset paging)", cleared.Page())
	}
}

func TestStore_SetThenClear_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	original := mustState(t, st, EntityPerformer)

	set, err := st.SetFilterValue(original, "name", Text("jane"))
	if err != nil {
		t.Fatalf("SetFilterValue: %v", err)
	}
	cleared := st.ClearFilterValue(set, "name")

	// Round trip: equal to the original except the page reset to 0,
	// which for a fresh state is the original exactly.
	if !cleared.Equal(original) {
		t.Errorf("round trip state differs from original")
	}
}

func TestStore_SetSort(t *testing.T) {
	st := newTestStore(t)

	t.Run("sortable field succeeds and keeps page", func(t *testing.T) {
		s := mustState(t, st, EntityPerformer)
		s, err := st.SetPage(s, 2)
		if err != nil {
			t.Fatalf("SetPage: %v", err)
		}

		next, err := st.SetSort(s, "name", Descending)
		if err != nil {
			t.Fatalf("SetSort: %v", err)
		}
		if next.Sort() != (Sort{Key: "name", Direction: Descending}) {
			t.Errorf("sort = %+v", next.Sort())
		}
		if next.Page() != 2 {
			t.Errorf("page = %d, want 2 (sort must not reset page)", next.Page())
		}
	})

	t.Run("non-sortable field fails and preserves state", func(t *testing.T) {
		s := mustState(t, st, EntityScene)

		next, err := st.SetSort(s, "id", Ascending)
		if !errors.Is(err, ErrNotSortable) {
			t.Fatalf("err = %v, want ErrNotSortable", err)
		}
		if !next.Equal(s) {
			t.Error("failed sort changed the state")
		}
	})

	t.Run("unknown key fails", func(t *testing.T) {
		s := mustState(t, st, EntityScene)

		if _, err := st.SetSort(s, "bogus", Ascending); !errors.Is(err, ErrUnknownFieldKey) {
			t.Errorf("err = %v, want ErrUnknownFieldKey", err)
		}
	})
}

func TestStore_SetPage(t *testing.T) {
	st := newTestStore(t)
	s := mustState(t, st, EntityTag)

	next, err := st.SetPage(s, 7)
	if err != nil {
		t.Fatalf("SetPage(7): %v", err)
	}
	if next.Page() != 7 {
		t.Errorf("page = %d, want 7", next.Page())
	}

	failed, err := st.SetPage(next, -1)
	if !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("err = %v, want ErrInvalidPage", err)
	}
	if failed.Page() != 7 {
		t.Errorf("page = %d after failed SetPage, want 7", failed.Page())
	}
}
