package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsToDevelopmentBackend(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("TOKEN_COOKIE_TTL", "")

	Load()

	if AppEnv.APIBaseURL != developmentAPIBaseURL {
		t.Fatalf("expected development backend, got %s", AppEnv.APIBaseURL)
	}
	if AppEnv.TokenCookieTTL != 7*24*time.Hour {
		t.Fatalf("expected 7 day cookie ttl, got %v", AppEnv.TokenCookieTTL)
	}
}

func TestSessionCookieTTLIsIndependentOfIdleTTL(t *testing.T) {
	t.Setenv("SESSION_IDLE_TTL", "15")
	t.Setenv("SESSION_COOKIE_TTL", "3")

	Load()

	if AppEnv.SessionIdleTTL != 15*time.Minute {
		t.Fatalf("expected 15 minute idle ttl, got %v", AppEnv.SessionIdleTTL)
	}
	if AppEnv.SessionCookieTTL != 3*24*time.Hour {
		t.Fatalf("expected 3 day sid cookie ttl, got %v", AppEnv.SessionCookieTTL)
	}
}

func TestLoadSelectsProductionBackend(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_BASE_URL", "")

	Load()

	if !AppEnv.IsProduction() {
		t.Fatal("expected production environment")
	}
	if AppEnv.APIBaseURL != productionAPIBaseURL {
		t.Fatalf("expected production backend, got %s", AppEnv.APIBaseURL)
	}
}

func TestGetListEnvDropsBlanks(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	got := getListEnv("ALLOWED_ORIGINS")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", got)
	}
}
