// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"github.com/kvdl/kvdl-site/internal/model"
)

// Contacts holds contact form submissions. Submissions can only be added.
type Contacts struct {
	opts options
	c    collection[model.ContactSubmission]
}

// Create appends a submission.
func (s *Contacts) Create(in model.ContactSubmissionInput) model.ContactSubmission {
	now := s.opts.now()
	sub := model.ContactSubmission{
		ID:          s.opts.newID(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Message:     in.Message,
		SubmittedAt: now,
	}
	s.c.insert(sub.ID, sub, now, nil)
	return sub
}

// List returns all submissions, newest first.
func (s *Contacts) List() []model.ContactSubmission {
	return s.c.list()
}

// Count returns the number of submissions.
func (s *Contacts) Count() int {
	return s.c.len()
}
