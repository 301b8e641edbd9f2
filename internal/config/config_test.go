package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("RUN_MIGRATIONS", "")

	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("port: got %q, want 8081", cfg.Port)
	}
	if cfg.AccessTokenTTL != 24*time.Hour {
		t.Errorf("access ttl: got %v, want 24h", cfg.AccessTokenTTL)
	}
	if len(cfg.AllowedOrigins) != 3 {
		t.Errorf("origins: got %v, want 3 entries", cfg.AllowedOrigins)
	}
	if !cfg.RunMigrations {
		t.Error("expected migrations enabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("PAYMENT_FAILURE_RATE", "0.25")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("port: got %q, want 9000", cfg.Port)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Errorf("access ttl: got %v, want 30m", cfg.AccessTokenTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins: got %v", cfg.AllowedOrigins)
	}
	if cfg.RunMigrations {
		t.Error("expected migrations disabled")
	}
	if cfg.SMTPPort != 2525 {
		t.Errorf("smtp port: got %d, want 2525", cfg.SMTPPort)
	}
	if cfg.PaymentFailureRate != 0.25 {
		t.Errorf("failure rate: got %v, want 0.25", cfg.PaymentFailureRate)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("REFRESH_TOKEN_TTL", "soon")

	cfg := Load()
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Errorf("refresh ttl: got %v, want 168h", cfg.RefreshTokenTTL)
	}
}
