// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records, their write inputs and the
// validation rules applied to those inputs before they reach the store.
package model

import (
	"strings"
	"time"
)

// RoleAdmin is the admin user role.
const RoleAdmin = "admin"

// Password length limits in bytes. bcrypt rejects input beyond 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User represents an admin account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Safe returns the user without its password hash.
func (u User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// SafeUser is the projection of a User exposed outside the store. It is also
// the principal attached to an authenticated session.
type SafeUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserInput is the registration payload for a new user.
type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Normalize trims identifiers and defaults the role.
func (in *UserInput) Normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if strings.TrimSpace(in.Role) == "" {
		in.Role = RoleAdmin
	}
}

// Validate checks the shape of a registration payload.
func (in UserInput) Validate() FieldErrors {
	errs := FieldErrors{}
	errs.required("username", in.Username)
	errs.email("email", in.Email)
	switch {
	case len(in.Password) < MinPasswordLength:
		errs.add("password", "Password must be at least 8 characters")
	case len(in.Password) > MaxPasswordLength:
		errs.add("password", "Password must be at most 72 bytes")
	}
	if in.Role != RoleAdmin {
		errs.add("role", "Unknown role")
	}
	return errs.orNil()
}

// LoginInput is the payload of a login request.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (in LoginInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if in.Username == "" {
		errs.add("username", "Username is required")
	}
	if in.Password == "" {
		errs.add("password", "Password is required")
	}
	return errs.orNil()
}
