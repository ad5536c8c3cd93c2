// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"sync"

	"github.com/kvdl/kvdl-site/internal/model"
)

// Settings holds the site settings singleton. It always exists.
type Settings struct {
	mu sync.RWMutex
	s  model.Settings
}

func newSettings(id string) *Settings {
	return &Settings{s: model.Settings{ID: id, SettingsInput: model.DefaultSettings()}}
}

// Get returns the current settings.
func (s *Settings) Get() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.s
}

// Update replaces every field except the id.
func (s *Settings) Update(in model.SettingsInput) model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s.SettingsInput = in
	return s.s
}
