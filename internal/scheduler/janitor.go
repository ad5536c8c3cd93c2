// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"

	"github.com/kvdl/kvdl-site/internal/cache"
)

// SessionJanitorJob is the registered name of the session purge job.
const SessionJanitorJob = "session_janitor"

// SessionJanitor returns a job that removes expired sessions from p.
func SessionJanitor(p cache.Purger, logger *slog.Logger) JobFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context) error {
		if removed := p.PurgeExpired(); removed > 0 {
			logger.InfoContext(ctx, "purged expired sessions", "count", removed)
		}
		return nil
	}
}
