// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strconv"
	"strings"
)

// Settings is the site-wide singleton record.
type Settings struct {
	ID string `json:"id"`
	SettingsInput
}

// SettingsInput holds every replaceable settings field.
type SettingsInput struct {
	CompanyName    string  `json:"companyName"`
	CompanyAddress string  `json:"companyAddress"`
	CompanyEmail   string  `json:"companyEmail"`
	CompanyPhone   string  `json:"companyPhone"`
	EmergencyPhone string  `json:"emergencyPhone"`
	BusinessHours  string  `json:"businessHours"`
	FacebookURL    *string `json:"facebookUrl"`
	TwitterURL     *string `json:"twitterUrl"`
	LinkedinURL    *string `json:"linkedinUrl"`
	InstagramURL   *string `json:"instagramUrl"`
	LogoURL        *string `json:"logoUrl"`
	MapLatitude    *string `json:"mapLatitude"`
	MapLongitude   *string `json:"mapLongitude"`
}

// DefaultSettings returns the settings a fresh process starts with.
func DefaultSettings() SettingsInput {
	return SettingsInput{
		CompanyName:    "KVDL Construction",
		CompanyAddress: "1234 Construction Ave, Seattle, WA 98301",
		CompanyEmail:   "contact@kvdlconstruction.com",
		CompanyPhone:   "(555) 123-4567",
		EmergencyPhone: "(555) 999-0008",
		BusinessHours:  "Monday - Friday: 8:00 AM - 6:00 PM, Saturday: 9:00 AM - 4:00 PM",
		FacebookURL:    ptr("https://facebook.com"),
		TwitterURL:     ptr("https://twitter.com"),
		LinkedinURL:    ptr("https://linkedin.com"),
		InstagramURL:   ptr("https://instagram.com"),
		MapLatitude:    ptr("47.6062"),
		MapLongitude:   ptr("-122.3321"),
	}
}

// Normalize trims text fields and drops blank optional values.
func (in *SettingsInput) Normalize() {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.CompanyAddress = strings.TrimSpace(in.CompanyAddress)
	in.CompanyEmail = strings.TrimSpace(in.CompanyEmail)
	in.CompanyPhone = strings.TrimSpace(in.CompanyPhone)
	in.EmergencyPhone = strings.TrimSpace(in.EmergencyPhone)
	in.BusinessHours = strings.TrimSpace(in.BusinessHours)
	for _, p := range []**string{
		&in.FacebookURL, &in.TwitterURL, &in.LinkedinURL, &in.InstagramURL,
		&in.LogoURL, &in.MapLatitude, &in.MapLongitude,
	} {
		*p = trimOptional(*p)
	}
}

// Validate checks the shape of a settings payload.
func (in SettingsInput) Validate() FieldErrors {
	errs := FieldErrors{}
	errs.required("companyName", in.CompanyName)
	errs.required("companyAddress", in.CompanyAddress)
	errs.email("companyEmail", in.CompanyEmail)
	errs.required("companyPhone", in.CompanyPhone)
	errs.required("emergencyPhone", in.EmergencyPhone)
	errs.required("businessHours", in.BusinessHours)
	if in.MapLatitude != nil {
		if v, err := strconv.ParseFloat(*in.MapLatitude, 64); err != nil || v < -90 || v > 90 {
			errs.add("mapLatitude", "Latitude must be a number between -90 and 90")
		}
	}
	if in.MapLongitude != nil {
		if v, err := strconv.ParseFloat(*in.MapLongitude, 64); err != nil || v < -180 || v > 180 {
			errs.add("mapLongitude", "Longitude must be a number between -180 and 180")
		}
	}
	return errs.orNil()
}

// SiteInfo is the public subset of Settings.
type SiteInfo struct {
	CompanyName    string  `json:"companyName"`
	CompanyAddress string  `json:"companyAddress"`
	CompanyEmail   string  `json:"companyEmail"`
	CompanyPhone   string  `json:"companyPhone"`
	EmergencyPhone string  `json:"emergencyPhone"`
	BusinessHours  string  `json:"businessHours"`
	FacebookURL    *string `json:"facebookUrl"`
	TwitterURL     *string `json:"twitterUrl"`
	LinkedinURL    *string `json:"linkedinUrl"`
	InstagramURL   *string `json:"instagramUrl"`
	LogoURL        *string `json:"logoUrl"`
	MapLatitude    *string `json:"mapLatitude"`
	MapLongitude   *string `json:"mapLongitude"`
}

// Public returns the fields safe to show to anonymous visitors.
func (s Settings) Public() SiteInfo {
	return SiteInfo(s.SettingsInput)
}

func ptr[T any](v T) *T {
	return &v
}
