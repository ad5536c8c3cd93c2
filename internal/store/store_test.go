// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvdl/kvdl-site/internal/auth"
	"github.com/kvdl/kvdl-site/internal/model"
)

// fakeClock returns a fixed time until advanced.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	return New(WithClock(clock.Now)), clock
}

func projectInput(title string) model.ProjectInput {
	return model.ProjectInput{
		Title:              title,
		Description:        "Y",
		Location:           "Z",
		Status:             model.ProjectStatusPlanning,
		Progress:           0,
		StartDate:          "2024-01-01",
		ExpectedCompletion: "2025-01-01",
	}
}

func TestProjects_CreateGet(t *testing.T) {
	s, _ := testStore(t)

	in := projectInput("X")
	img := "/uploads/x.jpg"
	in.ImageURL = &img
	created := s.Projects.Create(in)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "X", created.Title)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, ok := s.Projects.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, got)

	_, ok = s.Projects.Get("missing")
	assert.False(t, ok)
}

func TestProjects_ListNewestFirst(t *testing.T) {
	s, clock := testStore(t)

	a := s.Projects.Create(projectInput("A"))
	clock.Advance(time.Second)
	b := s.Projects.Create(projectInput("B"))
	clock.Advance(time.Second)
	c := s.Projects.Create(projectInput("C"))

	list := s.Projects.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestProjects_ListSameInstantUsesInsertionOrder(t *testing.T) {
	s, _ := testStore(t)

	first := s.Projects.Create(projectInput("first"))
	second := s.Projects.Create(projectInput("second"))

	list := s.Projects.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestProjects_UpdateReplacesFields(t *testing.T) {
	s, clock := testStore(t)

	img := "/uploads/x.jpg"
	in := projectInput("X")
	in.ImageURL = &img
	p := s.Projects.Create(in)

	clock.Advance(time.Minute)
	next := projectInput("Renamed")
	next.Status = model.ProjectStatusCompleted
	next.Progress = 100
	updated, ok := s.Projects.Update(p.ID, next)
	require.True(t, ok)

	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 100, updated.Progress)
	assert.Nil(t, updated.ImageURL, "omitted image should be cleared")
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	_, ok = s.Projects.Update("missing", next)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Projects.Count())
}

func TestProjects_Delete(t *testing.T) {
	s, _ := testStore(t)

	p := s.Projects.Create(projectInput("X"))
	assert.True(t, s.Projects.Delete(p.ID))
	assert.False(t, s.Projects.Delete(p.ID))

	_, ok := s.Projects.Get(p.ID)
	assert.False(t, ok)
	assert.Empty(t, s.Projects.List())
}

func TestProjects_FilterAndLocations(t *testing.T) {
	s, clock := testStore(t)

	office := projectInput("Office Tower")
	office.Location = "New York, NY"
	office.Status = model.ProjectStatusInProgress
	s.Projects.Create(office)
	clock.Advance(time.Second)

	warehouse := projectInput("Warehouse")
	warehouse.Location = "Chicago, IL"
	s.Projects.Create(warehouse)
	clock.Advance(time.Second)

	annex := projectInput("Office Annex")
	annex.Location = "Chicago, IL"
	s.Projects.Create(annex)

	got := s.Projects.Filter(model.ProjectFilter{Query: "office"})
	require.Len(t, got, 2)
	assert.Equal(t, "Office Annex", got[0].Title)

	got = s.Projects.Filter(model.ProjectFilter{Status: model.ProjectStatusInProgress})
	require.Len(t, got, 1)
	assert.Equal(t, "Office Tower", got[0].Title)

	got = s.Projects.Filter(model.ProjectFilter{Location: "Chicago, IL"})
	assert.Len(t, got, 2)

	assert.Len(t, s.Projects.Filter(model.ProjectFilter{}), 3)
	assert.Equal(t, []string{"Chicago, IL", "New York, NY"}, s.Projects.Locations())

	counts := s.Projects.CountByStatus()
	assert.Equal(t, 2, counts[model.ProjectStatusPlanning])
	assert.Equal(t, 1, counts[model.ProjectStatusInProgress])
	assert.Equal(t, 0, counts[model.ProjectStatusCompleted])
}

func TestGallery_CRUD(t *testing.T) {
	s, clock := testStore(t)

	projectID := "p1"
	caption := "Front"
	a := s.Gallery.Create(model.GalleryImageInput{ImageURL: "/a.jpg", Caption: &caption, ProjectID: &projectID})
	clock.Advance(time.Second)
	b := s.Gallery.Create(model.GalleryImageInput{ImageURL: "/b.jpg"})

	assert.Equal(t, a.UploadedAt, a.UpdatedAt)
	list := s.Gallery.List()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)

	byProject := s.Gallery.ByProject(projectID)
	require.Len(t, byProject, 1)
	assert.Equal(t, a.ID, byProject[0].ID)

	clock.Advance(time.Second)
	updated, ok := s.Gallery.Update(a.ID, model.GalleryImageInput{ImageURL: "/a2.jpg"})
	require.True(t, ok)
	assert.Equal(t, a.UploadedAt, updated.UploadedAt)
	assert.Equal(t, "/a2.jpg", updated.ImageURL)
	assert.Nil(t, updated.Caption)
	assert.Nil(t, updated.ProjectID)
	assert.Empty(t, s.Gallery.ByProject(projectID))

	assert.True(t, s.Gallery.Delete(b.ID))
	assert.False(t, s.Gallery.Delete(b.ID))
	assert.Equal(t, 1, s.Gallery.Count())
}

func TestPages_SlugUniqueness(t *testing.T) {
	s, _ := testStore(t)

	about, err := s.Pages.Create(model.PageInput{Title: "About", Slug: "about", Content: "Hi", Published: true})
	require.NoError(t, err)
	_, err = s.Pages.Create(model.PageInput{Title: "Draft", Slug: "draft", Content: "Soon"})
	require.NoError(t, err)

	_, err = s.Pages.Create(model.PageInput{Title: "Other", Slug: "about", Content: "x"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)
	assert.Equal(t, 2, s.Pages.Count())

	assert.True(t, s.Pages.SlugTaken("about", ""))
	assert.False(t, s.Pages.SlugTaken("about", about.ID))

	// Keeping its own slug is allowed.
	_, found, err := s.Pages.Update(about.ID, model.PageInput{Title: "About us", Slug: "about", Content: "Hi"})
	assert.True(t, found)
	assert.NoError(t, err)

	draft, _ := s.Pages.BySlug("draft")
	_, found, err = s.Pages.Update(draft.ID, model.PageInput{Title: "Draft", Slug: "about", Content: "x"})
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	_, found, err = s.Pages.Update("missing", model.PageInput{Title: "x", Slug: "x", Content: "x"})
	assert.False(t, found)
	assert.NoError(t, err)
}

func TestPages_Published(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.Pages.Create(model.PageInput{Title: "Live", Slug: "live", Content: "c", Published: true})
	require.NoError(t, err)
	_, err = s.Pages.Create(model.PageInput{Title: "Hidden", Slug: "hidden", Content: "c"})
	require.NoError(t, err)

	published := s.Pages.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "live", published[0].Slug)

	p, ok := s.Pages.BySlug("hidden")
	require.True(t, ok)
	assert.False(t, p.Published)
}

func TestSettings_UpdatePreservesID(t *testing.T) {
	s, _ := testStore(t)

	before := s.Settings.Get()
	require.NotEmpty(t, before.ID)
	assert.Equal(t, "KVDL Construction", before.CompanyName)

	in := model.DefaultSettings()
	in.CompanyName = "New Co"
	in.LogoURL = nil
	after := s.Settings.Update(in)

	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "New Co", after.CompanyName)
	assert.Equal(t, after, s.Settings.Get())
}

func TestContacts_AppendOnly(t *testing.T) {
	s, clock := testStore(t)

	first := s.Contacts.Create(model.ContactSubmissionInput{Name: "A", Email: "a@example.com", Message: "one"})
	clock.Advance(time.Second)
	second := s.Contacts.Create(model.ContactSubmissionInput{Name: "B", Email: "b@example.com", Message: "two"})

	list := s.Contacts.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, 2, s.Contacts.Count())
}

func TestUsers_CreateAndVerify(t *testing.T) {
	s, _ := testStore(t)

	u, err := s.Users.Create(model.UserInput{Username: "ed", Email: "ed@example.com", Password: "secret123", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	found, ok := s.Users.FindByUsername("ed")
	require.True(t, ok)
	assert.Equal(t, u.ID, found.ID)

	_, ok = s.Users.FindByUsername("Ed")
	assert.False(t, ok, "lookup must be case-sensitive")

	assert.True(t, s.Users.VerifyPassword(u.ID, "secret123"))
	assert.False(t, s.Users.VerifyPassword(u.ID, "wrong"))
	assert.False(t, s.Users.VerifyPassword("missing", "secret123"))
}

func TestUsers_Duplicates(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.Users.Create(model.UserInput{Username: "ed", Email: "ed@example.com", Password: "secret123", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = s.Users.Create(model.UserInput{Username: "ed", Email: "other@example.com", Password: "secret123", Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = s.Users.Create(model.UserInput{Username: "eddie", Email: "ed@example.com", Password: "secret123", Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	assert.Equal(t, 1, s.Users.Count())
}

func TestUsers_UpdatePasswordHash(t *testing.T) {
	s, _ := testStore(t)

	u, err := s.Users.Create(model.UserInput{Username: "ed", Email: "ed@example.com", Password: "secret123", Role: model.RoleAdmin})
	require.NoError(t, err)

	hash, err := auth.HashPassword("newsecret")
	require.NoError(t, err)
	assert.True(t, s.Users.UpdatePasswordHash(u.ID, hash))
	assert.True(t, s.Users.VerifyPassword(u.ID, "newsecret"))
	assert.False(t, s.Users.UpdatePasswordHash("missing", hash))
}

func TestSeed(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx, SeedOptions{SampleData: true}))

	admin, ok := s.Users.FindByUsername(DefaultAdminUsername)
	require.True(t, ok)
	assert.Equal(t, DefaultAdminEmail, admin.Email)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.True(t, s.Users.VerifyPassword(admin.ID, DefaultAdminPassword))

	assert.Equal(t, 5, s.Projects.Count())
	assert.Equal(t, 6, s.Gallery.Count())
	for _, img := range s.Gallery.List() {
		require.NotNil(t, img.ProjectID)
		_, ok := s.Projects.Get(*img.ProjectID)
		assert.True(t, ok, "gallery image references unknown project %s", *img.ProjectID)
	}

	// Seeding again creates nothing new.
	require.NoError(t, s.Seed(ctx, SeedOptions{SampleData: true}))
	assert.Equal(t, 1, s.Users.Count())
	assert.Equal(t, 5, s.Projects.Count())
}

func TestSeed_CustomAdminWithoutSamples(t *testing.T) {
	s, _ := testStore(t)

	require.NoError(t, s.Seed(context.Background(), SeedOptions{
		AdminUsername: "boss",
		AdminPassword: "hunter2hunter2",
		AdminEmail:    "boss@example.com",
	}))

	boss, ok := s.Users.FindByUsername("boss")
	require.True(t, ok)
	assert.True(t, s.Users.VerifyPassword(boss.ID, "hunter2hunter2"))
	assert.Zero(t, s.Projects.Count())
}

func TestStore_ConcurrentCreates(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Projects.Create(projectInput(fmt.Sprintf("P%d", i)))
			s.Contacts.Create(model.ContactSubmissionInput{Name: "n", Email: "e@example.com", Message: "m"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Projects.Count())
	assert.Len(t, s.Contacts.List(), 50)
}

func TestWithIDGenerator(t *testing.T) {
	n := 0
	s := New(WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))

	assert.Equal(t, "id-1", s.Settings.Get().ID)
	assert.Equal(t, "id-2", s.Projects.Create(projectInput("X")).ID)
}
