package config

import (
	"strings"
	"testing"
	"time"
)

func TestGetDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("PORT", "")

	cfg, err := Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cfg.PORT != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.PORT)
	}
	if cfg.BACKEND_API_URL != "http://localhost:5000/api" {
		t.Errorf("unexpected backend url %q", cfg.BACKEND_API_URL)
	}
	if cfg.DASHBOARD_CACHE_TTL != 5*time.Minute {
		t.Errorf("expected 5m dashboard ttl, got %s", cfg.DASHBOARD_CACHE_TTL)
	}
	if cfg.LOGIN_LOCKOUT != 300*time.Second {
		t.Errorf("expected 300s lockout, got %s", cfg.LOGIN_LOCKOUT)
	}
}

func TestGetStoreBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", " SQLite ")

	cfg, err := Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cfg.STORE_BACKEND != StoreSQLite {
		t.Fatalf("expected sqlite, got %q", cfg.STORE_BACKEND)
	}
}

func TestGetRejectsUnknownStore(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")

	if _, err := Get(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestGetRedisStoreNeedsURL(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "")

	if _, err := Get(); err == nil {
		t.Fatal("expected error when REDIS_URL is missing")
	}
}

func TestGetParseError(t *testing.T) {
	t.Setenv("PORT", "not-an-int")

	_, err := Get()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestSpacesEndpointFromRegion(t *testing.T) {
	t.Setenv("DO_SPACES_BUCKET", "logos")
	t.Setenv("DO_SPACES_REGION", "fra1")
	t.Setenv("DO_SPACES_ENDPOINT", "")

	cfg, err := Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cfg.DO_SPACES_ENDPOINT != "fra1.digitaloceanspaces.com" {
		t.Fatalf("unexpected endpoint %q", cfg.DO_SPACES_ENDPOINT)
	}
	if cfg.SpacesEnabled() {
		t.Fatal("spaces should be disabled without credentials")
	}
}
