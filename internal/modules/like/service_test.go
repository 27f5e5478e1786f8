package like

import (
	"path/filepath"
	"testing"

	"github.com/quillspace/core/internal/database"
	"github.com/quillspace/core/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
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
	return NewService(db), db
}

func TestToggle(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Toggle("user-1", "blog-1")
	if err != nil {
		t.Fatalf("first Toggle: %v", err)
	}
	if !first.Liked || first.LikeCount != 1 {
		t.Fatalf("first toggle: want liked=true count=1, got %+v", first)
	}

	second, err := svc.Toggle("user-1", "blog-1")
	if err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	if second.Liked || second.LikeCount != 0 {
		t.Fatalf("second toggle must restore the original state, got %+v", second)
	}
}

func TestToggle_CountIsPerBlog(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Toggle("user-1", "blog-1"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if _, err := svc.Toggle("user-2", "blog-1"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if _, err := svc.Toggle("user-1", "blog-2"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	count, err := svc.Count("blog-1")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 likes on blog-1, got %d", count)
	}
}

func TestToggle_DuplicateInsertRace(t *testing.T) {
	_, db := newTestService(t)

	// Simulate losing the insert race: the row appears between this
	// toggle's delete probe and its insert.
	rec := models.BlogLikeModel{UserID: "user-1", BlogID: "blog-1"}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed like: %v", err)
	}
	dup := models.BlogLikeModel{UserID: "user-1", BlogID: "blog-1"}
	err := db.Create(&dup).Error
	if err == nil {
		t.Fatal("expected the unique index to reject a duplicate pair")
	}
	if !isUniqueViolation(err) {
		t.Fatalf("duplicate must be classified as unique violation, got %v", err)
	}
}

func TestIsLiked(t *testing.T) {
	svc, _ := newTestService(t)

	liked, err := svc.IsLiked("user-1", "blog-1")
	if err != nil {
		t.Fatalf("IsLiked: %v", err)
	}
	if liked {
		t.Fatal("expected unliked before any toggle")
	}

	if _, err := svc.Toggle("user-1", "blog-1"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	liked, err = svc.IsLiked("user-1", "blog-1")
	if err != nil {
		t.Fatalf("IsLiked: %v", err)
	}
	if !liked {
		t.Fatal("expected liked after toggle")
	}
}
