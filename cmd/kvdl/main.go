// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kvdl/kvdl-site/internal/auth"
	"github.com/kvdl/kvdl-site/internal/cache"
	"github.com/kvdl/kvdl-site/internal/config"
	"github.com/kvdl/kvdl-site/internal/handler"
	"github.com/kvdl/kvdl-site/internal/imaging"
	"github.com/kvdl/kvdl-site/internal/logging"
	"github.com/kvdl/kvdl-site/internal/middleware"
	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/scheduler"
	"github.com/kvdl/kvdl-site/internal/session"
	"github.com/kvdl/kvdl-site/internal/store"
	"github.com/kvdl/kvdl-site/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "kvdl - KVDL Construction site backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KVDL_SESSION_SECRET    Session signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KVDL_SERVER_HOST       Listen host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KVDL_SERVER_PORT       Listen port (default: 5000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KVDL_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KVDL_UPLOADS_DIR       Uploaded images directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KVDL_REDIS_URL         Redis URL for shared sessions (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KVDL_ADMIN_PASSWORD    Initial admin password (default: admin123)\n")
	}

	flag.Parse()

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	st := store.New()
	if err := st.Seed(ctx, store.SeedOptions{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		AdminEmail:    cfg.AdminEmail,
		SampleData:    cfg.SeedSampleData,
	}); err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}

	backend, backendName := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.SessionLifetime,
	}, logger)
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("error closing session backend", "error", err)
		}
	}()

	sessionManager := session.New(session.Options{
		Lifetime:    cfg.SessionLifetime,
		IdleTimeout: cfg.SessionIdleTimeout,
		IsDev:       cfg.IsDevelopment(),
	}, backend)
	gate := session.NewGate(sessionManager, func(_ context.Context, id string) (model.SafeUser, bool) {
		u, ok := st.Users.FindByID(id)
		if !ok {
			return model.SafeUser{}, false
		}
		return u.Safe(), true
	})
	slog.Info("session manager initialized", "backend", backendName)

	sched := scheduler.New(logger)
	if purger, ok := backend.(cache.Purger); ok {
		if err := sched.Register(scheduler.SessionJanitorJob, "Purge expired sessions",
			cfg.JanitorSchedule, scheduler.SessionJanitor(purger, logger)); err != nil {
			return fmt.Errorf("registering session janitor: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	var metrics *middleware.Metrics
	if cfg.MetricsEnabled {
		metrics = middleware.NewMetrics()
	}

	router := handler.NewRouter(handler.RouterConfig{
		Store:          st,
		Gate:           gate,
		Authenticator:  auth.NewAuthenticator(st.Users, logger),
		Images:         imaging.NewProcessor(cfg.UploadsDir, "/uploads"),
		Jobs:           sched,
		Metrics:        metrics,
		Sessions:       backend,
		SessionBackend: backendName,
		Version:        versionInfo,
		IsDev:          cfg.IsDevelopment(),
		CSRFKey:        []byte(cfg.SessionSecret),
		TrustedOrigins: cfg.TrustedOrigins(),
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		UploadsDir:     cfg.UploadsDir,
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
