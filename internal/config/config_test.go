package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %d, got %d", defaultPort, cfg.Port)
	}
	if !cfg.IsDev() {
		t.Fatal("expected development default")
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: production
jwt_secret: super-secret
allowed_origins:
  - https://blog.example.com
image_bed:
  bucket: imgs
  region: us-east-1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.IsDev() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.JWTSecret != "super-secret" {
		t.Fatalf("jwt_secret not loaded: %q", cfg.JWTSecret)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://blog.example.com" {
		t.Fatalf("allowed_origins not loaded: %v", cfg.AllowedOrigins)
	}
	if cfg.ImageBed.Bucket != "imgs" {
		t.Fatalf("image_bed not loaded: %+v", cfg.ImageBed)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "port: 8080\njwt_secret: from-yaml\n")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("env PORT should win, got %d", cfg.Port)
	}
	if cfg.JWTSecret != "from-env" {
		t.Fatalf("env JWT_SECRET should win, got %q", cfg.JWTSecret)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	path := writeConfig(t, "env: staging\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid env")
	}
}
