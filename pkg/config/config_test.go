package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env by default, got %q", cfg.App.Env)
	}
	if cfg.Catalog.Timeout != 10*time.Second {
		t.Fatalf("unexpected catalog timeout %v", cfg.Catalog.Timeout)
	}
	if cfg.Payment.ProcessingDelay != 2*time.Second {
		t.Fatalf("unexpected processing delay %v", cfg.Payment.ProcessingDelay)
	}
	if cfg.Session.Backend != SessionBackendMemory {
		t.Fatalf("unexpected session backend %q", cfg.Session.Backend)
	}
}

func TestLoadRejectsRedisBackendWithoutAddress(t *testing.T) {
	t.Setenv("STOREFRONT_SESSION_BACKEND", "redis")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for redis backend without address")
	}
}

func TestLoadRejectsUnknownSessionBackend(t *testing.T) {
	t.Setenv("STOREFRONT_SESSION_BACKEND", "tape")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
