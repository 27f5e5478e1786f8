package blog

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Slugify lowers a human-entered title to a URL-safe slug.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// UniqueSlug disambiguates a slug with the creation timestamp so that two
// blogs with the same human-entered title submitted at different times get
// distinct slugs.
func UniqueSlug(base string, now time.Time) string {
	slug := Slugify(base)
	if slug == "" {
		slug = "untitled"
	}
	return slug + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}
