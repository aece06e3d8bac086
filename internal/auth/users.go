// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package auth

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/stashplayer/internal/config"
	"github.com/tomtom215/stashplayer/internal/metrics"
)

// Roles. Admins manage accounts; users browse and play.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// bcryptCost 12 balances security and login latency.
const bcryptCost = 12

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrLastAdmin         = errors.New("cannot delete the last admin")
)

// User is one account. PasswordHash never leaves this package.
type User struct {
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	passwordHash []byte
}

// UserStore is an in-memory account registry seeded with the configured
// admin. Accounts live for the process lifetime; the history store keys
// on username, so recreating an account reattaches its history.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewUserStore creates a store seeded with the admin account from the
// security configuration.
func NewUserStore(cfg *config.SecurityConfig) (*UserStore, error) {
	s := &UserStore{users: make(map[string]*User)}

	if cfg.AdminUsername != "" {
		if err := s.Create(cfg.AdminUsername, cfg.AdminPassword, RoleAdmin); err != nil {
			return nil, fmt.Errorf("failed to seed admin account: %w", err)
		}
	}

	return s, nil
}

// Create adds an account. Passwords are bcrypt-hashed at cost 12.
func (s *UserStore) Create(username, password, role string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if role != RoleAdmin && role != RoleUser {
		return fmt.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return fmt.Errorf("%w: %s", ErrUserExists, username)
	}

	s.users[username] = &User{
		Username:     username,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		passwordHash: hash,
	}
	return nil
}

// Authenticate checks a username/password pair and returns the account.
// bcrypt comparison is timing-safe; unknown users burn a comparison
// against a dummy hash so the two failure modes take similar time.
func (s *UserStore) Authenticate(username, password string) (*User, error) {
	s.mu.RLock()
	user, exists := s.users[username]
	s.mu.RUnlock()

	if !exists {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)); err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredential
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	copied := *user
	return &copied, nil
}

// dummyHash is a bcrypt hash of an unguessable value, compared against
// when the username does not exist.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("stashplayer-dummy-credential"), bcryptCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// Get returns one account.
func (s *UserStore) Get(username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[username]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	copied := *user
	return &copied, nil
}

// List returns all accounts sorted by username.
func (s *UserStore) List() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

// Delete removes an account. The last remaining admin cannot be
// deleted, so the instance never locks itself out.
func (s *UserStore) Delete(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[username]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	if user.Role == RoleAdmin {
		admins := 0
		for _, u := range s.users {
			if u.Role == RoleAdmin {
				admins++
			}
		}
		if admins == 1 {
			return ErrLastAdmin
		}
	}

	delete(s.users, username)
	return nil
}

// SetPassword replaces an account's password.
func (s *UserStore) SetPassword(username, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[username]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	user.passwordHash = hash
	return nil
}
