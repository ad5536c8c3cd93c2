// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kvdl/kvdl-site/internal/model"
)

// Default admin credentials
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
	DefaultAdminEmail    = "admin@kvdlconstruction.com"
)

// Sample image paths served from the uploads directory.
const (
	sampleDowntownImage    = "/uploads/samples/downtown-office-complex.png"
	sampleWarehouseImage   = "/uploads/samples/warehouse-facility.png"
	sampleResidentialImage = "/uploads/samples/residential-tower.png"
	sampleShoppingImage    = "/uploads/samples/shopping-mall.png"
	sampleUniversityImage  = "/uploads/samples/university-campus.png"
)

// SeedOptions controls what Seed creates.
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
	// SampleData adds demo projects and gallery images to an empty store.
	SampleData bool
}

func (o SeedOptions) withDefaults() SeedOptions {
	if o.AdminUsername == "" {
		o.AdminUsername = DefaultAdminUsername
	}
	if o.AdminPassword == "" {
		o.AdminPassword = DefaultAdminPassword
	}
	if o.AdminEmail == "" {
		o.AdminEmail = DefaultAdminEmail
	}
	return o
}

// Seed creates the admin user and, optionally, sample content.
func (s *Store) Seed(ctx context.Context, opts SeedOptions) error {
	opts = opts.withDefaults()

	if _, exists := s.Users.FindByUsername(opts.AdminUsername); exists {
		slog.InfoContext(ctx, "admin user already exists, skipping seed")
	} else {
		admin, err := s.Users.Create(model.UserInput{
			Username: opts.AdminUsername,
			Email:    opts.AdminEmail,
			Password: opts.AdminPassword,
			Role:     model.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}
		slog.InfoContext(ctx, "created default admin user",
			"id", admin.ID,
			"username", admin.Username,
			"email", admin.Email,
		)
	}

	if opts.SampleData && s.Projects.Count() == 0 {
		s.seedSamples()
		slog.InfoContext(ctx, "seeded sample data",
			"projects", s.Projects.Count(),
			"gallery_images", s.Gallery.Count(),
		)
	}

	return nil
}

func (s *Store) seedSamples() {
	projects := []model.ProjectInput{
		{
			Title:              "Downtown Office Complex",
			Description:        "A state-of-the-art 25-story office complex featuring modern architectural design, sustainable materials, and cutting-edge technology infrastructure. The project includes 500,000 square feet of Class A office space with premium amenities.",
			Location:           "New York, NY",
			Status:             model.ProjectStatusInProgress,
			Progress:           75,
			StartDate:          "2023-01-15",
			ExpectedCompletion: "2024-12-30",
			ImageURL:           strPtr(sampleDowntownImage),
		},
		{
			Title:              "Industrial Warehouse Facility",
			Description:        "Large-scale warehouse complex designed for modern logistics operations. Features high ceilings, advanced loading docks, and efficient layout optimized for distribution and storage.",
			Location:           "Chicago, IL",
			Status:             model.ProjectStatusPlanning,
			Progress:           5,
			StartDate:          "2025-03-01",
			ExpectedCompletion: "2026-05-30",
			ImageURL:           strPtr(sampleWarehouseImage),
		},
		{
			Title:              "Luxury Residential Tower",
			Description:        "Beautiful 40-story residential tower offering luxury apartments with stunning city views. Features modern amenities including rooftop terrace, fitness center, and concierge service.",
			Location:           "Los Angeles, CA",
			Status:             model.ProjectStatusCompleted,
			Progress:           100,
			StartDate:          "2022-06-01",
			ExpectedCompletion: "2024-08-15",
			ImageURL:           strPtr(sampleResidentialImage),
		},
		{
			Title:              "Shopping Mall Renovation",
			Description:        "Complete renovation of existing shopping center into a modern retail destination. Includes updated storefronts, improved parking, and enhanced customer experience areas.",
			Location:           "Houston, TX",
			Status:             model.ProjectStatusInProgress,
			Progress:           45,
			StartDate:          "2024-02-01",
			ExpectedCompletion: "2025-08-30",
			ImageURL:           strPtr(sampleShoppingImage),
		},
		{
			Title:              "University Campus Building",
			Description:        "New academic building for state university featuring modern classrooms, research labs, and collaborative learning spaces. LEED Gold certified sustainable design.",
			Location:           "Seattle, WA",
			Status:             model.ProjectStatusPlanning,
			Progress:           15,
			StartDate:          "2024-11-01",
			ExpectedCompletion: "2026-10-30",
			ImageURL:           strPtr(sampleUniversityImage),
		},
	}

	ids := make([]string, 0, len(projects))
	for _, in := range projects {
		ids = append(ids, s.Projects.Create(in).ID)
	}

	images := []model.GalleryImageInput{
		{ImageURL: sampleDowntownImage, Caption: strPtr("Downtown Office Complex - Exterior View"), ProjectID: strPtr(ids[0])},
		{ImageURL: sampleWarehouseImage, Caption: strPtr("Industrial Warehouse - Construction Progress"), ProjectID: strPtr(ids[1])},
		{ImageURL: sampleResidentialImage, Caption: strPtr("Residential Villa Project - Completed"), ProjectID: strPtr(ids[2])},
		{ImageURL: sampleShoppingImage, Caption: strPtr("Shopping Mall Construction - Interior"), ProjectID: strPtr(ids[3])},
		{ImageURL: sampleUniversityImage, Caption: strPtr("Downtown Office Complex - Progress Update"), ProjectID: strPtr(ids[0])},
		{ImageURL: sampleResidentialImage, Caption: strPtr("Industrial Warehouse - Exterior"), ProjectID: strPtr(ids[1])},
	}
	for _, in := range images {
		s.Gallery.Create(in)
	}
}

func strPtr(s string) *string {
	return &s
}
