package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("CONFIG_FILE", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("REPORT_PAGE_SIZE", "")
	t.Setenv("LIST_PAGE_SIZE", "-3")
	t.Setenv("API_BASE_URL", "https://api.inventora.test/")

	cfg := Load()
	if cfg.ReportPageSize != 8 {
		t.Fatalf("expected report page size 8, got %d", cfg.ReportPageSize)
	}
	if cfg.ListPageSize != 10 {
		t.Fatalf("expected invalid list page size to fall back to 10, got %d", cfg.ListPageSize)
	}
	if cfg.APIBaseURL != "https://api.inventora.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
}

func TestLoadReadsYAMLBelowEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventora.yaml")
	content := "PORT: 9090\nsmtp_host: smtp.inventora.test\nSMTP_PORT: 2525\nREDIS_ADDR: file-redis:6379\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("REDIS_ADDR", "env-redis:6379")

	cfg := Load()
	if cfg.Port != "9090" || cfg.Address() != ":9090" {
		t.Fatalf("expected port from file, got %q", cfg.Port)
	}
	if cfg.SMTPHost != "smtp.inventora.test" || cfg.SMTPPort != 2525 {
		t.Fatalf("expected smtp settings from file, got %q:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.RedisAddr != "env-redis:6379" {
		t.Fatalf("expected environment to win, got %q", cfg.RedisAddr)
	}
}

func TestLoadIgnoresUnreadableFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PORT", "")

	if cfg := Load(); cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
}
