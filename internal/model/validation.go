// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"net/mail"
	"sort"
	"strings"
)

// FieldErrors maps an input field name to a human-readable message.
// A nil or empty FieldErrors means the input is valid.
type FieldErrors map[string]string

// Valid reports whether no field failed validation.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

// Error implements the error interface.
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "valid"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add records the first message for a field.
func (e FieldErrors) add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

func (e FieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.add(field, capitalize(field)+" is required")
	}
}

func (e FieldErrors) email(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.add(field, capitalize(field)+" is required")
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		e.add(field, "Invalid email address")
	}
}

func (e FieldErrors) orNil() FieldErrors {
	if len(e) == 0 {
		return nil
	}
	return e
}

// capitalize returns s with the first letter capitalized.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// trimOptional trims an optional string and collapses blanks to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
