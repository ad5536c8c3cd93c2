// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the cookie session manager and the
// authentication gate built on top of it.
package session

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/kvdl/kvdl-site/internal/cache"
)

// Default session timings.
const (
	DefaultLifetime    = 24 * time.Hour
	DefaultIdleTimeout = 24 * time.Hour
)

// Options configures the session manager.
type Options struct {
	Lifetime    time.Duration
	IdleTimeout time.Duration
	// IsDev disables the Secure flag and the __Host- cookie prefix so the
	// cookie works over plain HTTP.
	IsDev bool
}

// New creates a new session manager backed by the given cache.
func New(opts Options, backend cache.Cache) *scs.SessionManager {
	if opts.Lifetime <= 0 {
		opts.Lifetime = DefaultLifetime
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}

	sm := scs.New()
	sm.Store = NewCacheStore(backend)

	sm.Lifetime = opts.Lifetime
	sm.IdleTimeout = opts.IdleTimeout
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !opts.IsDev // Secure cookies in production only
	if !opts.IsDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}
