package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SUGGESTION_TTL_SECONDS", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.SuggestionTTLSeconds != 30 {
		t.Fatalf("expected default suggestion TTL 30, got %d", cfg.SuggestionTTLSeconds)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %q", cfg.Address())
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("SUGGESTION_TTL_SECONDS", "-5")

	cfg := Load()
	if cfg.SuggestionTTLSeconds != 30 {
		t.Fatalf("expected fallback TTL 30 for invalid value, got %d", cfg.SuggestionTTLSeconds)
	}
}
