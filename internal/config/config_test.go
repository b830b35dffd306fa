package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("ACTIVATION_SECRET", "act")

	cfg := Load()
	if cfg.JWTExpiresIn != time.Hour {
		t.Fatalf("expected 1h session expiry, got %s", cfg.JWTExpiresIn)
	}
	if cfg.ActivationTTL != 24*time.Hour {
		t.Fatalf("expected 24h activation ttl, got %s", cfg.ActivationTTL)
	}
	if cfg.ResetTokenTTL != time.Hour {
		t.Fatalf("expected 1h reset ttl, got %s", cfg.ResetTokenTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if cfg.Google.Enabled() {
		t.Fatalf("google provider should be disabled without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("ACTIVATION_SECRET", "act")
	t.Setenv("JWT_EXPIRES_IN", "30m")
	t.Setenv("BCRYPT_SALT_ROUNDS", "12")
	t.Setenv("FRONTEND_URL", "https://crm.example.com/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("GITHUB_CLIENT_ID", "id")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")
	t.Setenv("BACKEND_URL", "https://api.example.com/")

	cfg := Load()
	if cfg.JWTExpiresIn != 30*time.Minute {
		t.Fatalf("unexpected session expiry %s", cfg.JWTExpiresIn)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("unexpected bcrypt cost %d", cfg.BcryptCost)
	}
	if cfg.FrontendURL != "https://crm.example.com" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.FrontendURL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if !cfg.GitHub.Enabled() || cfg.GitHub.CallbackURL != "https://api.example.com/auth/github/callback" {
		t.Fatalf("unexpected github config %+v", cfg.GitHub)
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("ACTIVATION_SECRET", "act")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")

	if got := Load().RateLimitWindow; got != time.Minute {
		t.Fatalf("expected default window, got %s", got)
	}
}
