// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package auth

import (
	"errors"
	"testing"

	"github.com/tomtom215/stashplayer/internal/config"
)

func newTestUserStore(t *testing.T) *UserStore {
	t.Helper()

	s, err := NewUserStore(&config.SecurityConfig{
		AdminUsername: "admin",
		AdminPassword: "correct-horse",
	})
	if err != nil {
		t.Fatalf("NewUserStore() error = %v", err)
	}
	return s
}

func TestUserStoreSeedsAdmin(t *testing.T) {
	s := newTestUserStore(t)

	user, err := s.Get("admin")
	if err != nil {
		t.Fatalf("Get(admin) error = %v", err)
	}
	if user.Role != RoleAdmin {
		t.Errorf("seeded admin role = %q, want admin", user.Role)
	}
}

func TestUserStoreCreateValidation(t *testing.T) {
	s := newTestUserStore(t)

	tests := []struct {
		name     string
		username string
		password string
		role     string
	}{
		{name: "empty username", username: "", password: "longenough", role: RoleUser},
		{name: "short password", username: "bob", password: "short", role: RoleUser},
		{name: "unknown role", username: "bob", password: "longenough", role: "superuser"},
		{name: "duplicate", username: "admin", password: "longenough", role: RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Create(tt.username, tt.password, tt.role); err == nil {
				t.Error("Create() should fail")
			}
		})
	}
}

func TestUserStoreAuthenticate(t *testing.T) {
	s := newTestUserStore(t)

	user, err := s.Authenticate("admin", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.Username != "admin" {
		t.Errorf("Username = %q, want admin", user.Username)
	}

	if _, err := s.Authenticate("admin", "wrong"); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredential", err)
	}
	if _, err := s.Authenticate("ghost", "correct-horse"); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredential", err)
	}
}

func TestUserStoreListSorted(t *testing.T) {
	s := newTestUserStore(t)

	if err := s.Create("zoe", "longenough", RoleUser); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Create("bob", "longenough", RoleUser); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	users := s.List()
	if len(users) != 3 {
		t.Fatalf("List() returned %d users, want 3", len(users))
	}
	for i, want := range []string{"admin", "bob", "zoe"} {
		if users[i].Username != want {
			t.Errorf("users[%d] = %q, want %q", i, users[i].Username, want)
		}
	}
}

func TestUserStoreDelete(t *testing.T) {
	s := newTestUserStore(t)

	if err := s.Create("bob", "longenough", RoleUser); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := s.Delete("bob"); err != nil {
		t.Errorf("Delete(bob) error = %v", err)
	}
	if err := s.Delete("bob"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second Delete(bob) error = %v, want ErrUserNotFound", err)
	}
}

func TestUserStoreKeepsLastAdmin(t *testing.T) {
	s := newTestUserStore(t)

	if err := s.Delete("admin"); !errors.Is(err, ErrLastAdmin) {
		t.Errorf("Delete(last admin) error = %v, want ErrLastAdmin", err)
	}

	// With a second admin the first becomes deletable.
	if err := s.Create("root", "longenough", RoleAdmin); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Delete("admin"); err != nil {
		t.Errorf("Delete(admin) error = %v with a second admin present", err)
	}
}

func TestUserStoreSetPassword(t *testing.T) {
	s := newTestUserStore(t)

	if err := s.SetPassword("admin", "new-password"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}

	if _, err := s.Authenticate("admin", "correct-horse"); err == nil {
		t.Error("old password should no longer authenticate")
	}
	if _, err := s.Authenticate("admin", "new-password"); err != nil {
		t.Errorf("new password should authenticate, got %v", err)
	}
}
