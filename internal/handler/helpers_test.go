// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kvdl/kvdl-site/internal/auth"
	"github.com/kvdl/kvdl-site/internal/cache"
	"github.com/kvdl/kvdl-site/internal/imaging"
	"github.com/kvdl/kvdl-site/internal/middleware"
	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/scheduler"
	"github.com/kvdl/kvdl-site/internal/session"
	"github.com/kvdl/kvdl-site/internal/store"
	"github.com/kvdl/kvdl-site/internal/version"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "admin123"
)

// testClock is a store clock that only moves when told to.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testEnv is a full router over an in-memory store, acting as a single
// browser that keeps its session cookie between requests.
type testEnv struct {
	t       *testing.T
	store   *store.Store
	clock   *testClock
	metrics *middleware.Metrics
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := &testClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	st := store.New(store.WithClock(clock.Now))
	require.NoError(t, st.Seed(context.Background(), store.SeedOptions{}))

	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = backend.Close() })

	sm := session.New(session.Options{IsDev: true}, backend)
	gate := session.NewGate(sm, func(_ context.Context, id string) (model.SafeUser, bool) {
		u, ok := st.Users.FindByID(id)
		if !ok {
			return model.SafeUser{}, false
		}
		return u.Safe(), true
	})

	sched := scheduler.New(nil)
	require.NoError(t, sched.Register(scheduler.SessionJanitorJob, "Purge expired sessions", "@hourly",
		scheduler.SessionJanitor(backend, nil)))

	uploadsDir := filepath.Join(t.TempDir(), "uploads")
	metrics := middleware.NewMetrics()

	router := NewRouter(RouterConfig{
		Store:          st,
		Gate:           gate,
		Authenticator:  auth.NewAuthenticator(st.Users, nil),
		Images:         imaging.NewProcessor(uploadsDir, "/uploads"),
		Jobs:           sched,
		Metrics:        metrics,
		Sessions:       backend,
		SessionBackend: "memory",
		Version:        version.Info{Version: "v0.0.0-test"},
		IsDev:          true,
		CSRFKey:        []byte("0123456789abcdef0123456789abcdef"),
		MaxUploadBytes: 2 << 20,
		UploadsDir:     uploadsDir,
	})

	return &testEnv{
		t:       t,
		store:   st,
		clock:   clock,
		metrics: metrics,
		router:  router,
		cookies: make(map[string]*http.Cookie),
	}
}

// client returns a second browser against the same router, with its own
// cookie jar.
func (e *testEnv) client() *testEnv {
	c := *e
	c.cookies = make(map[string]*http.Cookie)
	return &c
}

// do sends a request through the router. body may be nil, a string, a
// []byte or any value to be JSON encoded.
func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req)
}

func (e *testEnv) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(e.cookies, c.Name)
			continue
		}
		e.cookies[c.Name] = c
	}
	return w
}

// login signs in as the seeded admin.
func (e *testEnv) login() {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/auth/login", model.LoginInput{
		Username: testAdminUser,
		Password: testAdminPassword,
	})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func requireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) errorBody {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	body := decodeBody[errorBody](t, w)
	require.Equal(t, code, body.Error.Code)
	return body
}

func sampleProject(title string) model.ProjectInput {
	return model.ProjectInput{
		Title:              title,
		Description:        "Foundation and framing",
		Location:           "Seattle, WA",
		Status:             model.ProjectStatusPlanning,
		Progress:           10,
		StartDate:          "2024-01-01",
		ExpectedCompletion: "2025-06-30",
	}
}
