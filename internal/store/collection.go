// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

type entry[T any] struct {
	rec     T
	created time.Time
	seq     uint64
}

// collection is a keyed set of records ordered newest-created first.
// Records created at the same instant are ordered by later insertion first.
type collection[T any] struct {
	mu    sync.RWMutex
	items map[string]*entry[T]
	seq   uint64
}

// conflictFunc reports whether an existing record clashes with a write.
type conflictFunc[T any] func(id string, existing T) bool

func (c *collection[T]) insert(id string, rec T, created time.Time, conflict conflictFunc[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if conflict != nil && c.conflictsLocked(conflict) {
		return false
	}
	if c.items == nil {
		c.items = make(map[string]*entry[T])
	}
	c.seq++
	c.items[id] = &entry[T]{rec: rec, created: created, seq: c.seq}
	return true
}

func (c *collection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return e.rec, true
}

// update applies fn to the record with the given id. The conflict check
// skips the record being updated.
func (c *collection[T]) update(id string, fn func(T) T, conflict conflictFunc[T]) (rec T, found, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.items[id]
	if !exists {
		return rec, false, false
	}
	if conflict != nil && c.conflictsLocked(func(otherID string, other T) bool {
		return otherID != id && conflict(otherID, other)
	}) {
		return e.rec, true, false
	}
	e.rec = fn(e.rec)
	return e.rec, true, true
}

func (c *collection[T]) delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	return true
}

func (c *collection[T]) list() []T {
	return c.filter(nil)
}

// filter returns matching records newest first. A nil match keeps all.
func (c *collection[T]) filter(match func(T) bool) []T {
	c.mu.RLock()
	entries := make([]*entry[T], 0, len(c.items))
	for _, e := range c.items {
		if match == nil || match(e.rec) {
			entries = append(entries, e)
		}
	}
	c.mu.RUnlock()

	slices.SortFunc(entries, func(a, b *entry[T]) int {
		if n := b.created.Compare(a.created); n != 0 {
			return n
		}
		return cmp.Compare(b.seq, a.seq)
	})

	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.rec
	}
	return out
}

// find returns the first record matching fn in no particular order.
func (c *collection[T]) find(match func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.items {
		if match(e.rec) {
			return e.rec, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *collection[T]) conflictsLocked(conflict conflictFunc[T]) bool {
	for id, e := range c.items {
		if conflict(id, e.rec) {
			return true
		}
	}
	return false
}
