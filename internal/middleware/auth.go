// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyPrincipal holds the signed-in model.SafeUser.
const ContextKeyPrincipal ContextKey = "principal"

// PrincipalSource resolves the principal of the session in ctx.
type PrincipalSource interface {
	Principal(ctx context.Context) (model.SafeUser, bool)
}

// RequireAuth rejects requests without an authenticated session with a
// 401 JSON error before the next handler runs. On success the principal is
// added to the request context.
func RequireAuth(gate PrincipalSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := gate.Principal(r.Context())
			if !ok {
				slog.InfoContext(r.Context(), "access denied",
					"method", r.Method,
					"path", r.URL.Path,
				)
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// LoadPrincipal adds the principal to the request context when the session
// is authenticated and passes anonymous requests through untouched.
func LoadPrincipal(gate PrincipalSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, ok := gate.Principal(r.Context()); ok {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p model.SafeUser) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// GetPrincipal retrieves the signed-in user from the request context.
func GetPrincipal(r *http.Request) (model.SafeUser, bool) {
	p, ok := r.Context().Value(ContextKeyPrincipal).(model.SafeUser)
	return p, ok
}

// GetState returns the authentication state recorded in the request context.
func GetState(r *http.Request) session.State {
	if p, ok := GetPrincipal(r); ok {
		return session.Authenticated(p)
	}
	return session.Anonymous
}
