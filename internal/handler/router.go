// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kvdl/kvdl-site/internal/cache"
	"github.com/kvdl/kvdl-site/internal/imaging"
	"github.com/kvdl/kvdl-site/internal/logging"
	"github.com/kvdl/kvdl-site/internal/middleware"
	"github.com/kvdl/kvdl-site/internal/session"
	"github.com/kvdl/kvdl-site/internal/store"
	"github.com/kvdl/kvdl-site/internal/version"
)

// RouterConfig holds everything the HTTP surface depends on.
type RouterConfig struct {
	Store         *store.Store
	Gate          *session.Gate
	Authenticator Authenticator
	Images        *imaging.Processor
	// Jobs is optional; without it the /api/jobs routes are not mounted.
	Jobs JobRunner
	// Metrics is optional; without it /metrics is not served.
	Metrics *middleware.Metrics

	Sessions       cache.Cache
	SessionBackend string
	Version        version.Info

	IsDev          bool
	CSRFKey        []byte
	TrustedOrigins []string
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	UploadsDir     string
}

// NewRouter builds the chi router serving the JSON API.
func NewRouter(cfg RouterConfig) http.Handler {
	authH := NewAuthHandler(cfg.Authenticator, cfg.Gate, cfg.Metrics)
	projects := NewProjectsHandler(cfg.Store)
	gallery := NewGalleryHandler(cfg.Store)
	pages := NewPagesHandler(cfg.Store)
	settings := NewSettingsHandler(cfg.Store)
	contact := NewContactHandler(cfg.Store, cfg.Metrics)
	users := NewUsersHandler(cfg.Store)
	uploads := NewUploadsHandler(cfg.Images, cfg.MaxUploadBytes)
	dashboard := NewDashboardHandler(cfg.Store)
	health := NewHealthHandler(HealthConfig{
		Sessions:       cfg.Sessions,
		SessionBackend: cfg.SessionBackend,
		Gate:           cfg.Gate,
		Jobs:           cfg.Jobs,
		UploadsDir:     cfg.UploadsDir,
		Version:        cfg.Version,
	})

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Middleware)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{HeaderContentType},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDev)))
	r.Use(cfg.Metrics.Middleware)
	r.Use(cfg.Gate.Manager().LoadAndSave)

	csrfCfg := middleware.DefaultCSRFConfig(cfg.CSRFKey, cfg.IsDev)
	csrfCfg.TrustedOrigins = append(csrfCfg.TrustedOrigins, cfg.TrustedOrigins...)
	r.Use(middleware.CSRF(csrfCfg))
	r.Use(middleware.LoadPrincipal(cfg.Gate))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})

	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	r.Handle(RouteUploads+"/*", http.StripPrefix(RouteUploads+RouteRoot, http.FileServer(http.Dir(cfg.UploadsDir))))

	r.Route(RouteAPI, func(r chi.Router) {
		r.Get("/status", health.Status)

		r.Route(RouteAuth, func(r chi.Router) {
			r.Post("/login", authH.Login)
			r.Post("/logout", authH.Logout)
			r.Get("/user", authH.CurrentUser)
			r.With(middleware.RequireAuth(cfg.Gate)).Delete("/sessions", authH.RevokeOtherSessions)
		})

		// Public
		r.Get(RouteProjects, projects.List)
		r.Get(RouteProjects+"/locations", projects.Locations)
		r.Get(RouteProjectsID, projects.Get)
		r.Get(RouteGallery, gallery.List)
		r.Get(RouteGalleryID, gallery.Get)
		r.Get(RoutePages, pages.ListPublished)
		r.Get(RoutePagesSlug, pages.Show)
		r.Get("/site", settings.Site)
		r.Post(RouteContact, contact.Submit)

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.Gate))

			r.Post(RouteProjects, projects.Create)
			r.Put(RouteProjectsID, projects.Update)
			r.Patch(RouteProjectsID, projects.Update)
			r.Delete(RouteProjectsID, projects.Delete)

			r.Post(RouteGallery, gallery.Create)
			r.Put(RouteGalleryID, gallery.Update)
			r.Patch(RouteGalleryID, gallery.Update)
			r.Delete(RouteGalleryID, gallery.Delete)

			r.Post(RouteUploads, uploads.Upload)

			r.Route(RouteCMS, func(r chi.Router) {
				r.Get(RouteRoot, pages.List)
				r.Post(RouteRoot, pages.Create)
				r.Get("/slug-check", pages.SlugCheck)
				r.Get(RouteParamID, pages.Get)
				r.Put(RouteParamID, pages.Update)
				r.Patch(RouteParamID, pages.Update)
				r.Delete(RouteParamID, pages.Delete)
			})

			r.Get(RouteSettings, settings.Get)
			r.Put(RouteSettings, settings.Update)
			r.Patch(RouteSettings, settings.Update)

			r.Get(RouteContact, contact.List)

			r.Get(RouteUsers, users.List)
			r.Post(RouteUsers, users.Create)

			r.Get("/dashboard", dashboard.Stats)

			if cfg.Jobs != nil {
				jobs := NewJobsHandler(cfg.Jobs)
				r.Get(RouteJobs, jobs.List)
				r.Post(RouteJobs+"/{name}/run", jobs.Run)
			}
		})
	})

	return r
}
