// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"

	// RouteAPI is the prefix of every JSON endpoint.
	RouteAPI = "/api"
	// RouteAuth is the auth route group.
	RouteAuth = "/auth"
	// RouteProjects is the projects route.
	RouteProjects = "/projects"
	// RouteGallery is the gallery route.
	RouteGallery = "/gallery"
	// RoutePages is the public pages route.
	RoutePages = "/pages"
	// RouteCMS is the admin pages route.
	RouteCMS = "/cms"
	// RouteSettings is the settings route.
	RouteSettings = "/settings"
	// RouteContact is the contact form route.
	RouteContact = "/contact"
	// RouteUsers is the users route.
	RouteUsers = "/users"
	// RouteJobs is the scheduled jobs route.
	RouteJobs = "/jobs"
	// RouteUploads is the uploaded files route.
	RouteUploads = "/uploads"

	// RouteProjectsID is the projects ID route pattern.
	RouteProjectsID = RouteProjects + RouteParamID
	// RouteGalleryID is the gallery ID route pattern.
	RouteGalleryID = RouteGallery + RouteParamID
	// RoutePagesSlug is the public page route pattern.
	RoutePagesSlug = RoutePages + RouteParamSlug
)

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"
