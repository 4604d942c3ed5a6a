package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/pipeline")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if cfg.GetHTTPAddr() != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.GetHTTPAddr())
	}
	if cfg.GetAccessTokenTTL() != 12*time.Hour {
		t.Fatalf("expected 12h token ttl, got %v", cfg.GetAccessTokenTTL())
	}
	if cfg.GetSLAReminderOffset() != 36*time.Hour {
		t.Fatalf("expected 36h sla reminder, got %v", cfg.GetSLAReminderOffset())
	}
	if cfg.GetDashboardCacheTTL() != time.Minute {
		t.Fatalf("expected 60s dashboard ttl, got %v", cfg.GetDashboardCacheTTL())
	}
	if cfg.GetEmailEnabled() {
		t.Fatalf("expected email disabled without SMTP_HOST")
	}
	if cfg.GetPublicIntakePerMinute() != 10 {
		t.Fatalf("expected 10 intake requests per minute, got %d", cfg.GetPublicIntakePerMinute())
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/pipeline")
	t.Setenv("JWT_ACCESS_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without JWT_ACCESS_SECRET")
	}
}

func TestLoadRejectsInconsistentSettings(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"wildcard cors with credentials", map[string]string{"CORS_ORIGINS": "*", "CORS_ALLOW_CREDENTIALS": "true"}},
		{"half a bootstrap admin", map[string]string{"BOOTSTRAP_ADMIN_EMAIL": "admin@example.com"}},
		{"smtp without sender", map[string]string{"SMTP_HOST": "smtp.example.com", "EMAIL_FROM_ADDRESS": ""}},
		{"unparseable token ttl", map[string]string{"JWT_ACCESS_TTL": "soon"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://a.example.com, ,https://b.example.com ")
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins %v", got)
	}
}
