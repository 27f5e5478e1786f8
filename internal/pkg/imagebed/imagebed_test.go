package imagebed

import (
	"strings"
	"testing"
)

func TestNew_IncompleteConfig(t *testing.T) {
	if _, err := New(Options{Bucket: "b"}); err == nil {
		t.Fatal("expected error for incomplete config")
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("avatars", "me.PNG")
	if !strings.HasPrefix(key, "avatars/") {
		t.Fatalf("expected avatars/ prefix, got %s", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("expected lowercased extension, got %s", key)
	}

	other := ObjectKey("avatars", "me.PNG")
	if key == other {
		t.Fatal("keys for identical inputs must not collide")
	}

	if got := ObjectKey("", "noext"); !strings.HasSuffix(got, ".dat") {
		t.Fatalf("expected .dat fallback, got %s", got)
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		key  string
		want string
	}{
		{
			name: "custom domain",
			opts: Options{Bucket: "imgs", Region: "us-east-1", AccessKeyID: "k", SecretAccessKey: "s", CustomDomain: "https://cdn.example.com/"},
			key:  "avatars/a.png",
			want: "https://cdn.example.com/avatars/a.png",
		},
		{
			name: "custom endpoint path style",
			opts: Options{Bucket: "imgs", Region: "auto", AccessKeyID: "k", SecretAccessKey: "s", Endpoint: "minio.internal:9000"},
			key:  "blogs/b.jpg",
			want: "https://minio.internal:9000/imgs/blogs/b.jpg",
		},
		{
			name: "aws default",
			opts: Options{Bucket: "imgs", Region: "eu-west-1", AccessKeyID: "k", SecretAccessKey: "s"},
			key:  "blogs/c.webp",
			want: "https://imgs.s3.eu-west-1.amazonaws.com/blogs/c.webp",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, err := New(tc.opts)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := u.PublicURL(tc.key); got != tc.want {
				t.Fatalf("PublicURL = %s, want %s", got, tc.want)
			}
		})
	}
}
