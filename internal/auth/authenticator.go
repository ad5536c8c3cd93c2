// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kvdl/kvdl-site/internal/model"
)

// ErrInvalidCredentials is returned for an unknown username and for a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is a well-formed bcrypt hash at BcryptCost compared against
// when the username is unknown. It matches no password a client would send.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserFinder looks up users by their exact username.
type UserFinder interface {
	FindByUsername(username string) (model.User, bool)
}

// HashUpdater is optionally implemented by a UserFinder that can persist an
// upgraded password hash.
type HashUpdater interface {
	UpdatePasswordHash(id, hash string) bool
}

// Authenticator verifies username/password pairs.
type Authenticator struct {
	users  UserFinder
	logger *slog.Logger
}

// NewAuthenticator creates an Authenticator backed by users.
func NewAuthenticator(users UserFinder, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{users: users, logger: logger}
}

// Authenticate returns the principal for a matching username and password.
// The username is compared exactly, without case folding or trimming.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (model.SafeUser, error) {
	user, ok := a.users.FindByUsername(username)
	if !ok {
		// Burn the same bcrypt work as a real comparison.
		CheckPassword(password, dummyHash)
		a.logger.InfoContext(ctx, "login failed", "username", username, "reason", "unknown user")
		return model.SafeUser{}, ErrInvalidCredentials
	}

	if !CheckPassword(password, user.PasswordHash) {
		a.logger.InfoContext(ctx, "login failed", "username", username, "reason", "wrong password")
		return model.SafeUser{}, ErrInvalidCredentials
	}

	if NeedsRehash(user.PasswordHash) {
		a.rehash(ctx, user.ID, password)
	}

	return user.Safe(), nil
}

func (a *Authenticator) rehash(ctx context.Context, id, password string) {
	updater, ok := a.users.(HashUpdater)
	if !ok {
		return
	}
	hash, err := HashPassword(password)
	if err != nil {
		a.logger.WarnContext(ctx, "password rehash failed", "user_id", id, "error", err)
		return
	}
	if updater.UpdatePasswordHash(id, hash) {
		a.logger.InfoContext(ctx, "password hash upgraded", "user_id", id)
	}
}
