// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/kvdl/kvdl-site/internal/cache"
	"github.com/kvdl/kvdl-site/internal/middleware"
	"github.com/kvdl/kvdl-site/internal/scheduler"
	"github.com/kvdl/kvdl-site/internal/version"
)

// JobRunner lists and triggers scheduled jobs.
type JobRunner interface {
	Jobs() []scheduler.JobInfo
	Trigger(ctx context.Context, name string) error
}

// SessionGate resolves the caller and counts signed-in sessions.
type SessionGate interface {
	middleware.PrincipalSource
	ActiveSessions(ctx context.Context) (int, error)
}

// HealthHandler handles health check and status requests.
type HealthHandler struct {
	sessions       cache.Cache
	sessionBackend string
	gate           SessionGate
	jobs           JobRunner
	uploadsDir     string
	version        version.Info
	startTime      time.Time
}

// HealthConfig holds the dependencies of a HealthHandler.
type HealthConfig struct {
	Sessions       cache.Cache
	SessionBackend string
	Gate           SessionGate
	Jobs           JobRunner
	UploadsDir     string
	Version        version.Info
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cfg HealthConfig) *HealthHandler {
	return &HealthHandler{
		sessions:       cfg.Sessions,
		sessionBackend: cfg.SessionBackend,
		gate:           cfg.Gate,
		jobs:           cfg.Jobs,
		uploadsDir:     cfg.UploadsDir,
		version:        cfg.Version,
		startTime:      time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus represents the overall health status (authenticated callers only).
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutines"`
	NumCPU       int    `json:"numCpus"`
	MemAlloc     string `json:"memAlloc"`
	MemSys       string `json:"memSys"`
}

// Health handles GET /health requests.
// Returns minimal status for unauthenticated callers, full details for authenticated ones.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	sessionCheck := h.checkSessions(r.Context())
	diskCheck := h.checkDiskSpace()

	overallStatus := "healthy"
	if sessionCheck.Status != "healthy" || diskCheck.Status != "healthy" {
		overallStatus = "degraded"
	}

	w.Header().Set(HeaderContentType, "application/json")
	if overallStatus != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if !h.isAuthenticated(r) {
		_ = json.NewEncoder(w).Encode(HealthStatusPublic{Status: overallStatus})
		return
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    h.uptime(),
		Version:   h.version.Version,
		Checks: map[string]Check{
			"sessions": sessionCheck,
			"disk":     diskCheck,
		},
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = getSystemInfo()
	}

	_ = json.NewEncoder(w).Encode(status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// StatusResponse is the GET /api/status body. Jobs and Sessions are only
// filled in for authenticated callers.
type StatusResponse struct {
	Status   string              `json:"status"`
	Version  version.Info        `json:"version"`
	Uptime   string              `json:"uptime"`
	Sessions *SessionStatus      `json:"sessions,omitempty"`
	Jobs     []scheduler.JobInfo `json:"jobs,omitempty"`
}

// SessionStatus describes the session backend. Active is the number of
// signed-in sessions, or -1 when they could not be listed.
type SessionStatus struct {
	Backend string       `json:"backend"`
	Active  int          `json:"active"`
	Stats   *cache.Stats `json:"stats,omitempty"`
}

// Status handles GET /api/status.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  h.uptime(),
	}

	if h.isAuthenticated(r) {
		resp.Sessions = &SessionStatus{Backend: h.sessionBackend, Active: -1}
		if h.gate != nil {
			if n, err := h.gate.ActiveSessions(r.Context()); err != nil {
				slog.WarnContext(r.Context(), "failed to count sessions", "error", err)
			} else {
				resp.Sessions.Active = n
			}
		}
		if sp, ok := h.sessions.(cache.StatsProvider); ok {
			stats := sp.Stats()
			resp.Sessions.Stats = &stats
		}
		if h.jobs != nil {
			resp.Jobs = h.jobs.Jobs()
		}
	}

	WriteJSON(w, http.StatusOK, resp)
}

func (h *HealthHandler) uptime() string {
	return time.Since(h.startTime).Round(time.Second).String()
}

func (h *HealthHandler) isAuthenticated(r *http.Request) bool {
	if _, ok := middleware.GetPrincipal(r); ok {
		return true
	}
	if h.gate == nil {
		return false
	}
	_, ok := h.gate.Principal(r.Context())
	return ok
}

// checkSessions verifies the session backend answers.
func (h *HealthHandler) checkSessions(ctx context.Context) Check {
	if h.sessions == nil {
		return Check{Status: "unhealthy", Message: "No session backend"}
	}

	start := time.Now()
	var err error
	if p, ok := h.sessions.(cache.Pinger); ok {
		err = p.Ping(ctx)
	} else {
		_, err = h.sessions.Has(ctx, "health:probe")
	}
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency.String(),
		}
	}

	return Check{
		Status:  "healthy",
		Message: h.sessionBackend,
		Latency: latency.String(),
	}
}

// checkDiskSpace checks available disk space in the uploads directory.
func (h *HealthHandler) checkDiskSpace() Check {
	if _, err := os.Stat(h.uploadsDir); os.IsNotExist(err) {
		// Created on first upload.
		return Check{
			Status:  "healthy",
			Message: "Uploads directory does not exist yet",
		}
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(h.uploadsDir, &stat); err != nil {
		return Check{
			Status:  "unhealthy",
			Message: "Failed to check disk space: " + err.Error(),
		}
	}

	availableBytes := stat.Bavail * uint64(stat.Bsize)
	available := formatBytes(availableBytes)

	const minSpace = 100 * 1024 * 1024 // 100MB
	if availableBytes < minSpace {
		return Check{
			Status:  "degraded",
			Message: "Low disk space: " + available + " available",
		}
	}

	return Check{
		Status:  "healthy",
		Message: available + " available",
	}
}

// getSystemInfo returns system-level metrics.
func getSystemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
