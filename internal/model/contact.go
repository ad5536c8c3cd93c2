// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// MaxContactMessageLength caps the size of a contact form message.
const MaxContactMessageLength = 5000

// ContactSubmission is a message left through the public contact form.
// Submissions are never updated or deleted.
type ContactSubmission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ContactSubmissionInput is the public contact form payload.
type ContactSubmissionInput struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Message string  `json:"message"`
}

// Normalize trims text fields and drops a blank phone number.
func (in *ContactSubmissionInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	in.Phone = trimOptional(in.Phone)
}

// Validate checks the shape of a contact form payload.
func (in ContactSubmissionInput) Validate() FieldErrors {
	errs := FieldErrors{}
	errs.required("name", in.Name)
	errs.email("email", in.Email)
	errs.required("message", in.Message)
	if len(in.Message) > MaxContactMessageLength {
		errs.add("message", "Message is too long")
	}
	return errs.orNil()
}
