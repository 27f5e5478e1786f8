package blog

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quillspace/core/internal/database"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	svc      *Service
	db       *gorm.DB
	author   *jwt.Claims
	admin    *jwt.Claims
	stranger *jwt.Claims
	category *models.CategoryModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mkUser := func(name, role string) *jwt.Claims {
		u := &models.UserModel{Name: name, Email: name + "@example.com", Role: role, Password: "x"}
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
		return &jwt.Claims{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	}

	cat := &models.CategoryModel{Name: "Tech", Slug: "tech"}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	return &fixture{
		svc:      NewService(db),
		db:       db,
		author:   mkUser("alice", models.RoleUser),
		admin:    mkUser("carol", models.RoleAdmin),
		stranger: mkUser("bob", models.RoleUser),
		category: cat,
	}
}

func (f *fixture) create(t *testing.T, title string) *models.BlogModel {
	t.Helper()
	b, err := f.svc.Create(f.author, &BlogDataDTO{
		Category:    f.category.ID,
		Title:       title,
		BlogContent: "<p>hello</p>",
	}, "https://img.example.com/cover.png")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return b
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "My First Post")

	if !strings.HasPrefix(b.Slug, "my-first-post-") {
		t.Fatalf("slug not derived from title: %q", b.Slug)
	}
	if b.BlogContent != "&lt;p&gt;hello&lt;/p&gt;" {
		t.Fatalf("content must be HTML-escaped, got %q", b.BlogContent)
	}
	if b.Status != models.BlogDraft {
		t.Fatalf("expected draft default, got %q", b.Status)
	}
	if b.Author == nil || b.Author.Name != "alice" {
		t.Fatalf("author not joined: %+v", b.Author)
	}
	if b.Category == nil || b.Category.Slug != "tech" {
		t.Fatalf("category not joined: %+v", b.Category)
	}
}

func TestCreate_SameTitleDistinctSlugs(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, "Duplicate Title")
	second := f.create(t, "Duplicate Title")

	if first.Slug == second.Slug {
		t.Fatalf("same-title blogs must get distinct slugs, both %q", first.Slug)
	}
}

func TestCreate_UnknownCategory(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(f.author, &BlogDataDTO{
		Category:    "missing",
		Title:       "Valid Title",
		BlogContent: "text",
	}, "https://img.example.com/c.png")
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestUpdate_OwnershipRule(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "Original Title")

	dto := &BlogDataDTO{Category: f.category.ID, Title: "Changed Title", BlogContent: "new"}

	if _, err := f.svc.Update(f.stranger, b.ID, dto, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-author, got %v", err)
	}

	updated, err := f.svc.Update(f.admin, b.ID, dto, "")
	if err != nil {
		t.Fatalf("admin Update: %v", err)
	}
	if updated.Title != "Changed Title" {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if updated.FeaturedImage != b.FeaturedImage {
		t.Fatal("featured image must be untouched when no new upload is given")
	}
}

func TestUpdate_Tags(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "Tagged Post")

	dto := &BlogDataDTO{
		Category:    f.category.ID,
		Title:       "Tagged Post",
		BlogContent: "body",
		Tags:        []string{"Go", " Web "},
	}
	updated, err := f.svc.Update(f.author, b.ID, dto, "")
	if err != nil {
		t.Fatalf("Update with tags: %v", err)
	}
	want := []string{"go", "web"}
	if len(updated.Tags) != len(want) {
		t.Fatalf("expected tags %v, got %v", want, updated.Tags)
	}
	for i := range want {
		if updated.Tags[i] != want[i] {
			t.Fatalf("expected tags %v, got %v", want, updated.Tags)
		}
	}

	// Read back through a fresh query to prove the stored value round-trips.
	reread, err := f.svc.GetForEdit(f.author, b.ID)
	if err != nil {
		t.Fatalf("GetForEdit after tag update: %v", err)
	}
	if len(reread.Tags) != len(want) {
		t.Fatalf("stored tags did not round-trip: %v", reread.Tags)
	}
}

func TestDelete_OwnershipRule(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "Doomed Title")

	if err := f.svc.Delete(f.stranger, b.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(f.author, b.ID); err != nil {
		t.Fatalf("author Delete: %v", err)
	}
	if _, err := f.svc.GetBySlug(b.Slug); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListForDashboard(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Alice Writes")

	other, err := f.svc.Create(f.stranger, &BlogDataDTO{
		Category:    f.category.ID,
		Title:       "Bob Writes Too",
		BlogContent: "text",
	}, "https://img.example.com/b.png")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = other

	own, err := f.svc.ListForDashboard(f.author)
	if err != nil {
		t.Fatalf("ListForDashboard: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("non-admin must only see own blogs, got %d", len(own))
	}

	all, err := f.svc.ListForDashboard(f.admin)
	if err != nil {
		t.Fatalf("ListForDashboard admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin must see all blogs, got %d", len(all))
	}
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Kubernetes Deep Dive")
	f.create(t, "Gardening Tips")

	hits, err := f.svc.Search("KUBER")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "Kubernetes Deep Dive" {
		t.Fatalf("unexpected search hits: %+v", hits)
	}
}

func TestByCategoryAndRelated(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "Primary Article")
	f.create(t, "Sibling Article")

	blogs, cat, err := f.svc.ByCategory("tech")
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if cat.ID != f.category.ID || len(blogs) != 2 {
		t.Fatalf("unexpected by-category result: %d blogs", len(blogs))
	}

	related, err := f.svc.Related("tech", b.Slug)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(related) != 1 || related[0].Slug == b.Slug {
		t.Fatalf("related must exclude the current slug: %+v", related)
	}

	if _, _, err := f.svc.ByCategory("nope"); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestIncrementViews(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "Counted Article")

	if err := f.svc.IncrementViews(b.ID); err != nil {
		t.Fatalf("IncrementViews: %v", err)
	}
	if err := f.svc.IncrementViews(b.ID); err != nil {
		t.Fatalf("IncrementViews: %v", err)
	}

	got, err := f.svc.GetBySlug(b.Slug)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.Views != 2 {
		t.Fatalf("expected 2 views, got %d", got.Views)
	}
}
