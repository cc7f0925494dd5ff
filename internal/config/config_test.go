package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PHOTOS_PER_PAGE", "not-a-number")
	t.Setenv("BUILD_DELAY", "1500ms")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.PhotosPerPage != 4 {
		t.Fatalf("expected fallback of 4 photos per page, got %d", cfg.PhotosPerPage)
	}
	if cfg.BuildDelay != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s build delay, got %s", cfg.BuildDelay)
	}
	if cfg.MaxUploadSize != 10*1024*1024 {
		t.Fatalf("expected 10 MiB upload limit, got %d", cfg.MaxUploadSize)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %#v", cfg.AllowedOrigins)
	}
	if cfg.DefaultAlbumTitle != "Mon album photo" {
		t.Fatalf("unexpected default title %q", cfg.DefaultAlbumTitle)
	}
}
