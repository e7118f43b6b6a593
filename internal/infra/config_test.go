package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_PATH", "GEMINI_API_KEY", "GEMINI_MODEL", "DEFAULT_LOGO_URL", "MAX_UPLOAD_MB", "CORS_ALLOWED_ORIGINS", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "8080")
	}
	if cfg.GeminiModel != "gemini-2.5-flash-image" {
		t.Fatalf("GeminiModel mismatch: got %q", cfg.GeminiModel)
	}
	if cfg.DefaultLogoURL != defaultLogoURL || cfg.DefaultLogoName != "La Paris Gold" {
		t.Fatalf("default logo mismatch: %q %q", cfg.DefaultLogoName, cfg.DefaultLogoURL)
	}
	if cfg.MaxUploadBytes != 32<<20 {
		t.Fatalf("MaxUploadBytes mismatch: got %d", cfg.MaxUploadBytes)
	}
	if cfg.GeminiTimeout != 120*time.Second {
		t.Fatalf("GeminiTimeout mismatch: got %s", cfg.GeminiTimeout)
	}
	if cfg.HasGemini() {
		t.Fatalf("HasGemini should be false without a key")
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "1919")
	t.Setenv("GEMINI_API_KEY", "  secret  ")
	t.Setenv("GEMINI_TIMEOUT_SECONDS", "45")
	t.Setenv("MAX_UPLOAD_MB", "8")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://studio.example.com, http://localhost:5173 ,https://studio.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "1919" {
		t.Fatalf("Port mismatch: got %q", cfg.Port)
	}
	if cfg.GeminiAPIKey != "secret" || !cfg.HasGemini() {
		t.Fatalf("GeminiAPIKey mismatch: got %q", cfg.GeminiAPIKey)
	}
	if cfg.GeminiTimeout != 45*time.Second {
		t.Fatalf("GeminiTimeout mismatch: got %s", cfg.GeminiTimeout)
	}
	if cfg.MaxUploadBytes != 8<<20 {
		t.Fatalf("MaxUploadBytes mismatch: got %d", cfg.MaxUploadBytes)
	}
	if cfg.RateLimitPerMin != 120 {
		t.Fatalf("RateLimitPerMin should fall back, got %d", cfg.RateLimitPerMin)
	}
	expected := []string{"http://localhost:5173", "https://studio.example.com"}
	if len(cfg.CORSAllowedOrigins) != len(expected) {
		t.Fatalf("CORSAllowedOrigins mismatch: got %#v want %#v", cfg.CORSAllowedOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
}

func TestLoadConfigRejectsNonPositiveLimits(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "0")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for zero upload limit")
	}
}
