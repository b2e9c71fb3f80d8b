package app

import "testing"

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("CLIENT_DIR", "")
	t.Setenv("EVENT_RETENTION", "")

	cfg := ConfigFromEnv(nil)
	if cfg.Addr != ":3001" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.ClientDir != "./dist" {
		t.Fatalf("unexpected client dir %q", cfg.ClientDir)
	}
	if cfg.EventRetention != 0 {
		t.Fatalf("unexpected retention %d", cfg.EventRetention)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("FRONTEND_URL", "https://game.example")
	t.Setenv("CLIENT_DIR", "/srv/client")
	t.Setenv("EVENT_RETENTION", "128")

	cfg := ConfigFromEnv(nil)
	if cfg.Addr != ":4000" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://game.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.ClientDir != "/srv/client" {
		t.Fatalf("unexpected client dir %q", cfg.ClientDir)
	}
	if cfg.EventRetention != 128 {
		t.Fatalf("unexpected retention %d", cfg.EventRetention)
	}
}

func TestConfigFromEnvInvalidRetention(t *testing.T) {
	t.Setenv("EVENT_RETENTION", "not-a-number")

	cfg := ConfigFromEnv(nil)
	if cfg.EventRetention != 0 {
		t.Fatalf("expected default retention, got %d", cfg.EventRetention)
	}
}
