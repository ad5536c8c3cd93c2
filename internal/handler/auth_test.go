// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvdl/kvdl-site/internal/model"
)

type userEnvelope struct {
	User *model.SafeUser `json:"user"`
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/login", model.LoginInput{Username: "admin", Password: "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody[userEnvelope](t, w)
	require.NotNil(t, body.User)
	assert.Equal(t, "admin", body.User.Username)
	assert.Equal(t, model.RoleAdmin, body.User.Role)
	assert.NotContains(t, strings.ToLower(w.Body.String()), "password")
	assert.NotEmpty(t, env.cookies, "expected a session cookie")
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)

	wrong := env.do(http.MethodPost, "/api/auth/login", model.LoginInput{Username: "admin", Password: "nope"})
	wrongBody := requireError(t, wrong, http.StatusUnauthorized, "invalid_credentials")

	unknown := env.do(http.MethodPost, "/api/auth/login", model.LoginInput{Username: "ghost", Password: "admin123"})
	unknownBody := requireError(t, unknown, http.StatusUnauthorized, "invalid_credentials")

	// Unknown user and wrong password are indistinguishable.
	assert.Equal(t, wrongBody, unknownBody)

	// Usernames are case sensitive.
	upper := env.do(http.MethodPost, "/api/auth/login", model.LoginInput{Username: "ADMIN", Password: "admin123"})
	requireError(t, upper, http.StatusUnauthorized, "invalid_credentials")

	// Still anonymous afterwards.
	w := env.do(http.MethodGet, "/api/auth/user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeBody[userEnvelope](t, w).User)
}

func TestLogin_BadInput(t *testing.T) {
	env := newTestEnv(t)

	body := requireError(t, env.do(http.MethodPost, "/api/auth/login", model.LoginInput{}), http.StatusBadRequest, "bad_request")
	assert.Contains(t, body.Error.Details, "username")
	assert.Contains(t, body.Error.Details, "password")

	requireError(t, env.do(http.MethodPost, "/api/auth/login", "{not json"), http.StatusBadRequest, "bad_request")
	requireError(t, env.do(http.MethodPost, "/api/auth/login", ""), http.StatusBadRequest, "bad_request")
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	// Anonymous
	w := env.do(http.MethodGet, "/api/auth/user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())
	requireError(t, env.do(http.MethodGet, "/api/dashboard", nil), http.StatusUnauthorized, "unauthorized")

	// Authenticated
	env.login()
	w = env.do(http.MethodGet, "/api/auth/user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody[userEnvelope](t, w).User
	require.NotNil(t, user)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/dashboard", nil).Code)

	// Logged out
	w = env.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully"}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/auth/user", nil)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())
	requireError(t, env.do(http.MethodGet, "/api/dashboard", nil), http.StatusUnauthorized, "unauthorized")
}

func TestLogin_RenewsSessionToken(t *testing.T) {
	env := newTestEnv(t)

	// Plant a session before signing in.
	env.do(http.MethodPost, "/api/auth/logout", nil)
	before := map[string]string{}
	for name, c := range env.cookies {
		before[name] = c.Value
	}
	require.NotEmpty(t, before)

	env.login()
	for name, value := range before {
		c, ok := env.cookies[name]
		require.True(t, ok)
		assert.NotEqual(t, value, c.Value, "session token must change on login")
	}
}

func TestLogout_Anonymous(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully"}`, w.Body.String())
	assert.Empty(t, w.Result().Cookies(), "anonymous logout must not start a session")
}

func TestRevokeOtherSessions(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.client()
	phone := env.client()
	laptop.login()
	phone.login()

	w := laptop.do(http.MethodDelete, "/api/auth/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"revoked":1}`, w.Body.String())

	me := decodeBody[userEnvelope](t, laptop.do(http.MethodGet, "/api/auth/user", nil))
	assert.NotNil(t, me.User)
	me = decodeBody[userEnvelope](t, phone.do(http.MethodGet, "/api/auth/user", nil))
	assert.Nil(t, me.User)

	requireError(t, phone.do(http.MethodDelete, "/api/auth/sessions", nil), http.StatusUnauthorized, "unauthorized")
}

func TestLogin_SwitchesPrincipal(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	created := env.do(http.MethodPost, "/api/users", model.UserInput{
		Username: "second",
		Email:    "second@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	w := env.do(http.MethodPost, "/api/auth/login", model.LoginInput{Username: "second", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody[userEnvelope](t, env.do(http.MethodGet, "/api/auth/user", nil)).User
	require.NotNil(t, user)
	assert.Equal(t, "second", user.Username)
}

func TestProtectedRoutes_RejectAnonymous(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/projects", sampleProject("X")},
		{http.MethodPut, "/api/projects/any", sampleProject("X")},
		{http.MethodPatch, "/api/projects/any", sampleProject("X")},
		{http.MethodDelete, "/api/projects/any", nil},
		{http.MethodPost, "/api/gallery", model.GalleryImageInput{ImageURL: "/a.png"}},
		{http.MethodDelete, "/api/gallery/any", nil},
		{http.MethodGet, "/api/cms", nil},
		{http.MethodPost, "/api/cms", model.PageInput{Title: "T", Content: "c"}},
		{http.MethodGet, "/api/cms/any", nil},
		{http.MethodGet, "/api/cms/slug-check?slug=x", nil},
		{http.MethodDelete, "/api/auth/sessions", nil},
		{http.MethodGet, "/api/settings", nil},
		{http.MethodPut, "/api/settings", model.DefaultSettings()},
		{http.MethodGet, "/api/contact", nil},
		{http.MethodGet, "/api/users", nil},
		{http.MethodPost, "/api/users", model.UserInput{Username: "x", Email: "x@example.com", Password: "password123"}},
		{http.MethodPost, "/api/uploads", nil},
		{http.MethodGet, "/api/dashboard", nil},
		{http.MethodGet, "/api/jobs", nil},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			requireError(t, env.do(rt.method, rt.path, rt.body), http.StatusUnauthorized, "unauthorized")
		})
	}

	// Nothing reached the store.
	assert.Zero(t, env.store.Projects.Count())
	assert.Zero(t, env.store.Gallery.Count())
	assert.Zero(t, env.store.Pages.Count())
	assert.Equal(t, 1, env.store.Users.Count())
	assert.Equal(t, "KVDL Construction", env.store.Settings.Get().CompanyName)
}
