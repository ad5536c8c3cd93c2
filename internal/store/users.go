// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/kvdl/kvdl-site/internal/auth"
	"github.com/kvdl/kvdl-site/internal/model"
)

// Errors returned when registering a user.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// Users holds admin accounts. Users are never deleted.
type Users struct {
	opts options
	c    collection[model.User]
}

// Create registers a user, hashing the plaintext password.
func (s *Users) Create(in model.UserInput) (model.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}

	now := s.opts.now()
	u := model.User{
		ID:           s.opts.newID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    now,
	}

	var dupErr error
	inserted := s.c.insert(u.ID, u, now, func(_ string, existing model.User) bool {
		switch {
		case existing.Username == u.Username:
			dupErr = ErrDuplicateUsername
		case existing.Email == u.Email:
			dupErr = ErrDuplicateEmail
		default:
			return false
		}
		return true
	})
	if !inserted {
		return model.User{}, dupErr
	}
	return u, nil
}

// FindByUsername looks a user up by exact, case-sensitive username.
func (s *Users) FindByUsername(username string) (model.User, bool) {
	return s.c.find(func(u model.User) bool { return u.Username == username })
}

// FindByID returns the user with the given id.
func (s *Users) FindByID(id string) (model.User, bool) {
	return s.c.get(id)
}

// VerifyPassword checks plain against the stored hash of user id.
// An unknown id never verifies.
func (s *Users) VerifyPassword(id, plain string) bool {
	u, ok := s.c.get(id)
	if !ok {
		return false
	}
	return auth.CheckPassword(plain, u.PasswordHash)
}

// UpdatePasswordHash replaces the stored hash of user id.
func (s *Users) UpdatePasswordHash(id, hash string) bool {
	_, found, _ := s.c.update(id, func(u model.User) model.User {
		u.PasswordHash = hash
		return u
	}, nil)
	return found
}

// List returns all users without password hashes, newest first.
func (s *Users) List() []model.SafeUser {
	return lo.Map(s.c.list(), func(u model.User, _ int) model.SafeUser { return u.Safe() })
}

// Count returns the number of users.
func (s *Users) Count() int {
	return s.c.len()
}
