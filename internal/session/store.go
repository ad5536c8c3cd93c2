// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/kvdl/kvdl-site/internal/cache"
)

const keyPrefix = "session:"

// CacheStore adapts a cache.Cache to the scs session store interfaces.
type CacheStore struct {
	backend cache.Cache
}

// NewCacheStore wraps backend as a session store.
func NewCacheStore(backend cache.Cache) *CacheStore {
	return &CacheStore{backend: backend}
}

// FindCtx returns the session data for token.
func (s *CacheStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	b, err := s.backend.Get(ctx, keyPrefix+token)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// CommitCtx stores session data until expiry.
func (s *CacheStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return s.backend.Delete(ctx, keyPrefix+token)
	}
	return s.backend.Set(ctx, keyPrefix+token, b, ttl)
}

// DeleteCtx removes the session for token.
func (s *CacheStore) DeleteCtx(ctx context.Context, token string) error {
	return s.backend.Delete(ctx, keyPrefix+token)
}

// AllCtx returns every live session keyed by token. It backs
// scs.SessionManager.Iterate.
func (s *CacheStore) AllCtx(ctx context.Context) (map[string][]byte, error) {
	return s.backend.All(ctx, keyPrefix)
}

// Find implements scs.Store.
func (s *CacheStore) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

// Commit implements scs.Store.
func (s *CacheStore) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

// Delete implements scs.Store.
func (s *CacheStore) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}

var (
	_ scs.Store            = (*CacheStore)(nil)
	_ scs.CtxStore         = (*CacheStore)(nil)
	_ scs.IterableCtxStore = (*CacheStore)(nil)
)
