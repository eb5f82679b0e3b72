package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("GEMINI_MODEL_ID", "")
	t.Setenv("ASSISTANT_TIMEOUT", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.GeminiModelID != "gemini-2.5-flash" {
		t.Fatalf("expected default model id, got %s", cfg.GeminiModelID)
	}
	if cfg.AssistantTimeout != 30*time.Second {
		t.Fatalf("expected default assistant timeout, got %s", cfg.AssistantTimeout)
	}
	if cfg.SnapshotTTL != time.Minute {
		t.Fatalf("expected default snapshot ttl, got %s", cfg.SnapshotTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user@host/clinic")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ASSISTANT_TIMEOUT", "45s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://clinic.example , https://admin.example")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/clinic" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.AssistantTimeout != 45*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.AssistantTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://clinic.example" {
		t.Fatalf("expected trimmed origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestValidateRequiresInferenceCredential(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "postgres://user@host/clinic")
	cfg := Load()
	if err := cfg.Validate(); !errors.Is(err, ErrMissingInferenceCredential) {
		t.Fatalf("expected missing credential error, got %v", err)
	}
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "")
	cfg := Load()
	if err := cfg.Validate(); !errors.Is(err, ErrMissingDatabaseURL) {
		t.Fatalf("expected missing database error, got %v", err)
	}
}
