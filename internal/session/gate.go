// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"fmt"

	"github.com/alexedwards/scs/v2"

	"github.com/kvdl/kvdl-site/internal/model"
)

// userIDKey is the only value kept in the session.
const userIDKey = "user_id"

// State is the authentication state of a request. The zero value is
// anonymous.
type State struct {
	Authenticated bool
	Principal     model.SafeUser
}

// Anonymous is the state of a request without a signed-in user.
var Anonymous = State{}

// Authenticated returns the state for a signed-in principal.
func Authenticated(p model.SafeUser) State {
	return State{Authenticated: true, Principal: p}
}

// Loader resolves a stored principal id to the current user record.
type Loader func(ctx context.Context, id string) (model.SafeUser, bool)

// Gate moves a session between Anonymous and Authenticated.
// All methods need a context carrying session data, as provided by
// scs.SessionManager.LoadAndSave.
type Gate struct {
	sm   *scs.SessionManager
	load Loader
}

// NewGate creates a gate over sm that resolves principals with load.
func NewGate(sm *scs.SessionManager, load Loader) *Gate {
	return &Gate{sm: sm, load: load}
}

// Manager returns the underlying session manager.
func (g *Gate) Manager() *scs.SessionManager {
	return g.sm
}

// SignIn renews the session token and binds the principal to it.
func (g *Gate) SignIn(ctx context.Context, p model.SafeUser) error {
	if err := g.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	g.sm.Put(ctx, userIDKey, p.ID)
	return nil
}

// SignOut drops the principal and renews the token. Signing out an
// anonymous session is a no-op and leaves the session unmodified.
func (g *Gate) SignOut(ctx context.Context) error {
	if !g.sm.Exists(ctx, userIDKey) {
		return nil
	}
	g.sm.Remove(ctx, userIDKey)
	if err := g.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	return nil
}

// Principal returns the signed-in user. It reports false when the session
// is anonymous or the user no longer exists.
func (g *Gate) Principal(ctx context.Context) (model.SafeUser, bool) {
	id := g.sm.GetString(ctx, userIDKey)
	if id == "" {
		return model.SafeUser{}, false
	}
	return g.load(ctx, id)
}

// State returns the authentication state of the session in ctx.
func (g *Gate) State(ctx context.Context) State {
	if p, ok := g.Principal(ctx); ok {
		return Authenticated(p)
	}
	return Anonymous
}

// ActiveSessions counts the stored sessions bound to a principal.
func (g *Gate) ActiveSessions(ctx context.Context) (int, error) {
	n := 0
	err := g.sm.Iterate(ctx, func(sctx context.Context) error {
		if g.sm.Exists(sctx, userIDKey) {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("iterating sessions: %w", err)
	}
	return n, nil
}

// RevokeOthers destroys every stored session of the principal signed in on
// ctx except the current one and returns how many were removed.
func (g *Gate) RevokeOthers(ctx context.Context) (int, error) {
	id := g.sm.GetString(ctx, userIDKey)
	if id == "" {
		return 0, nil
	}
	current := g.sm.Token(ctx)

	n := 0
	err := g.sm.Iterate(ctx, func(sctx context.Context) error {
		if g.sm.Token(sctx) == current || g.sm.GetString(sctx, userIDKey) != id {
			return nil
		}
		if err := g.sm.Destroy(sctx); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("revoking sessions: %w", err)
	}
	return n, nil
}
