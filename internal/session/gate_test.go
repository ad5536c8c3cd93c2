// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvdl/kvdl-site/internal/model"
)

var testPrincipal = model.SafeUser{ID: "u1", Username: "admin", Role: model.RoleAdmin}

func testGate(t *testing.T, users map[string]model.SafeUser) *Gate {
	t.Helper()
	sm := New(Options{IsDev: true}, newBackend(t))
	return NewGate(sm, func(_ context.Context, id string) (model.SafeUser, bool) {
		u, ok := users[id]
		return u, ok
	})
}

// serve runs fn inside a loaded session, carrying over the given cookie.
func serve(t *testing.T, g *Gate, cookie *http.Cookie, fn func(r *http.Request)) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	g.Manager().LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fn(r)
	})).ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == g.Manager().Cookie.Name {
			return c
		}
	}
	return cookie
}

func TestGate_AnonymousByDefault(t *testing.T) {
	g := testGate(t, map[string]model.SafeUser{"u1": testPrincipal})

	serve(t, g, nil, func(r *http.Request) {
		assert.Equal(t, Anonymous, g.State(r.Context()))
		_, ok := g.Principal(r.Context())
		assert.False(t, ok)
	})
}

func TestGate_SignInSignOut(t *testing.T) {
	g := testGate(t, map[string]model.SafeUser{"u1": testPrincipal})

	var before string
	cookie := serve(t, g, nil, func(r *http.Request) {
		before = g.Manager().Token(r.Context())
		require.NoError(t, g.SignIn(r.Context(), testPrincipal))
		assert.NotEqual(t, before, g.Manager().Token(r.Context()), "token must be renewed on sign in")
	})
	require.NotNil(t, cookie)

	cookie = serve(t, g, cookie, func(r *http.Request) {
		state := g.State(r.Context())
		assert.True(t, state.Authenticated)
		assert.Equal(t, testPrincipal, state.Principal)
		require.NoError(t, g.SignOut(r.Context()))
	})

	serve(t, g, cookie, func(r *http.Request) {
		assert.Equal(t, Anonymous, g.State(r.Context()))
	})
}

func TestGate_SignOutAnonymousIsHarmless(t *testing.T) {
	backend := newBackend(t)
	g := NewGate(New(Options{IsDev: true}, backend), func(context.Context, string) (model.SafeUser, bool) {
		return model.SafeUser{}, false
	})

	cookie := serve(t, g, nil, func(r *http.Request) {
		assert.NoError(t, g.SignOut(r.Context()))
		assert.Equal(t, Anonymous, g.State(r.Context()))
	})

	assert.Nil(t, cookie, "signing out an anonymous session must not issue a cookie")
	all, err := backend.All(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all, "signing out an anonymous session must not store a session")
}

func TestGate_VanishedUserIsAnonymous(t *testing.T) {
	users := map[string]model.SafeUser{"u1": testPrincipal}
	g := testGate(t, users)

	cookie := serve(t, g, nil, func(r *http.Request) {
		require.NoError(t, g.SignIn(r.Context(), testPrincipal))
	})

	delete(users, "u1")
	serve(t, g, cookie, func(r *http.Request) {
		_, ok := g.Principal(r.Context())
		assert.False(t, ok)
	})
}

func TestGate_OldTokenRejectedAfterSignIn(t *testing.T) {
	g := testGate(t, map[string]model.SafeUser{"u1": testPrincipal})

	// Establish an anonymous session first so a token exists.
	anon := serve(t, g, nil, func(r *http.Request) {
		g.Manager().Put(r.Context(), "seen", true)
	})
	require.NotNil(t, anon)

	serve(t, g, anon, func(r *http.Request) {
		require.NoError(t, g.SignIn(r.Context(), testPrincipal))
	})

	// The pre-login token no longer carries the principal.
	serve(t, g, anon, func(r *http.Request) {
		_, ok := g.Principal(r.Context())
		assert.False(t, ok)
	})
}

func TestGate_ActiveSessions(t *testing.T) {
	g := testGate(t, map[string]model.SafeUser{"u1": testPrincipal})

	for range 2 {
		serve(t, g, nil, func(r *http.Request) {
			require.NoError(t, g.SignIn(r.Context(), testPrincipal))
		})
	}
	serve(t, g, nil, func(r *http.Request) {
		g.Manager().Put(r.Context(), "seen", true)
	})

	serve(t, g, nil, func(r *http.Request) {
		n, err := g.ActiveSessions(r.Context())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestGate_RevokeOthers(t *testing.T) {
	other := model.SafeUser{ID: "u2", Username: "editor", Role: model.RoleAdmin}
	g := testGate(t, map[string]model.SafeUser{"u1": testPrincipal, "u2": other})

	signIn := func(p model.SafeUser) *http.Cookie {
		return serve(t, g, nil, func(r *http.Request) {
			require.NoError(t, g.SignIn(r.Context(), p))
		})
	}
	laptop := signIn(testPrincipal)
	phone := signIn(testPrincipal)
	editor := signIn(other)

	serve(t, g, laptop, func(r *http.Request) {
		n, err := g.RevokeOthers(r.Context())
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	serve(t, g, phone, func(r *http.Request) {
		assert.Equal(t, Anonymous, g.State(r.Context()))
	})
	serve(t, g, laptop, func(r *http.Request) {
		assert.True(t, g.State(r.Context()).Authenticated)
	})
	serve(t, g, editor, func(r *http.Request) {
		assert.Equal(t, other, g.State(r.Context()).Principal)
	})
}

func TestGate_RevokeOthersAnonymous(t *testing.T) {
	g := testGate(t, nil)

	serve(t, g, nil, func(r *http.Request) {
		n, err := g.RevokeOthers(r.Context())
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
