package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INVITATION_TTL", "not-a-duration")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("unexpected port: %q", cfg.Port)
	}
	if cfg.InvitationTTL != 7*24*time.Hour {
		t.Fatalf("invalid ttl should fall back to default, got %v", cfg.InvitationTTL)
	}
}

func TestLoadInvitationTTL(t *testing.T) {
	t.Setenv("INVITATION_TTL", "48h")
	if ttl := Load().InvitationTTL; ttl != 48*time.Hour {
		t.Fatalf("unexpected ttl: %v", ttl)
	}
}

func TestLoadClientFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `api_url = "https://api.suitekeep.app/"
account_id = 12
suite_id = 3
log_level = "debug"
timeout = "5s"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadClient(path)
	if err != nil {
		t.Fatalf("load client config: %v", err)
	}
	if cfg.APIURL != "https://api.suitekeep.app" {
		t.Fatalf("unexpected api url: %q", cfg.APIURL)
	}
	if cfg.AccountID != 12 || cfg.SuiteID != 3 {
		t.Fatalf("unexpected ids: %+v", cfg)
	}
	if cfg.Timeout.Duration != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout.Duration)
	}
}

func TestLoadClientMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadClient(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load client config: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" || cfg.LogLevel != "info" || cfg.Timeout.Duration != 15*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadClientMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("api_url = ["), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadClient(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
