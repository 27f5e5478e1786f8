package blog

import (
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Go, Gin & GORM!  ", "go-gin-gorm"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
		{"Ünïcödé Tîtle", "ünïcödé-tîtle"},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	got := UniqueSlug("Hello World", now)
	if got != "hello-world-1700000000000" {
		t.Fatalf("UniqueSlug = %q", got)
	}

	later := UniqueSlug("Hello World", now.Add(time.Millisecond))
	if got == later {
		t.Fatal("slugs for the same title at different times must differ")
	}

	if !strings.HasPrefix(UniqueSlug("", now), "untitled-") {
		t.Fatal("empty base must fall back to untitled")
	}
}
