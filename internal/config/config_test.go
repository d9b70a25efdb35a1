package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123:abc"
database:
  url: "postgres://localhost/leech"
redis:
  url: "localhost:6379"
`)

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Bot.Workers != 8 {
		t.Errorf("default workers = %d, want 8", cfg.Bot.Workers)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Health.Host != "0.0.0.0" || cfg.Health.Port != 8080 {
		t.Errorf("unexpected health defaults: %+v", cfg.Health)
	}
	if cfg.Leech.MaxUploadBytes != 2<<30 {
		t.Errorf("default ceiling = %d, want 2GiB", cfg.Leech.MaxUploadBytes)
	}
	if cfg.Resolver.Timeout != 30*time.Second {
		t.Errorf("default resolver timeout = %s", cfg.Resolver.Timeout)
	}
	if cfg.Verification.Enabled {
		t.Errorf("verification should be disabled by default")
	}
}

func TestLoadConfigMissingToken(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://localhost/leech"
redis:
  url: "localhost:6379"
`)

	if _, err := LoadConfig(path, false); err == nil {
		t.Fatalf("expected error for missing bot token")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "from-file"
database:
  url: "postgres://localhost/leech"
redis:
  url: "localhost:6379"
health:
  port: 9000
`)

	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("HEALTH_PORT", "9191")

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Bot.Token != "from-env" {
		t.Errorf("env override lost: token = %q", cfg.Bot.Token)
	}
	if cfg.Health.Port != 9191 {
		t.Errorf("env override lost: port = %d", cfg.Health.Port)
	}
	if !cfg.Runtime.Dev {
		t.Errorf("expected dev runtime flag")
	}
}

func TestLoadConfigVerificationRequiresKey(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123:abc"
database:
  url: "postgres://localhost/leech"
redis:
  url: "localhost:6379"
verification:
  enabled: true
`)

	if _, err := LoadConfig(path, false); err == nil {
		t.Fatalf("expected error for enabled verification without api key")
	}
}
