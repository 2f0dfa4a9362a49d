package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.RESTPort != "8080" || cfg.Server.WSPort != "8081" {
		t.Fatalf("unexpected default ports: %+v", cfg.Server)
	}
	if cfg.MLB.BaseURL != "https://statsapi.mlb.com/api/v1" {
		t.Fatalf("unexpected MLB base: %s", cfg.MLB.BaseURL)
	}
	if cfg.Redis.StatsTTL != 10*time.Minute {
		t.Fatalf("expected 10m stats TTL, got %v", cfg.Redis.StatsTTL)
	}
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("REST_PORT", "9090")
	t.Setenv("STATS_CACHE_TTL", "30s")
	t.Setenv("BBREF_USE_BROWSER", "true")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.RESTPort != "9090" || cfg.Redis.StatsTTL != 30*time.Second || !cfg.Fallback.UseBrowser {
		t.Fatalf("expected environment overrides, got %+v", cfg)
	}
}

func TestNewRejectsBadRefreshHour(t *testing.T) {
	t.Setenv("REFRESH_HOUR", "24")
	if _, err := New(); err == nil {
		t.Fatalf("expected error for hour 24")
	}
}
