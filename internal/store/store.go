// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store keeps every entity of the site in process memory. Nothing
// survives a restart.
package store

import (
	"time"

	"github.com/google/uuid"
)

// Store groups the per-entity collections.
type Store struct {
	Projects *Projects
	Gallery  *Gallery
	Pages    *Pages
	Settings *Settings
	Contacts *Contacts
	Users    *Users
}

// Option configures a Store.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator overrides the record id generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

// New creates an empty store holding only the default settings.
func New(opts ...Option) *Store {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store{
		Projects: &Projects{opts: o},
		Gallery:  &Gallery{opts: o},
		Pages:    &Pages{opts: o},
		Settings: newSettings(o.newID()),
		Contacts: &Contacts{opts: o},
		Users:    &Users{opts: o},
	}
}
