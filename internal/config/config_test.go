package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(telegramTokenEnv, "")

	cfg := Load()

	if cfg.Telegram.RetryDelay != 60*time.Second {
		t.Fatalf("unexpected retry delay: %s", cfg.Telegram.RetryDelay)
	}
	if cfg.Telegram.IdleDelay != 2*time.Second {
		t.Fatalf("unexpected idle delay: %s", cfg.Telegram.IdleDelay)
	}
	if len(cfg.Sites) != 3 {
		t.Fatalf("expected 3 default sites, got %d", len(cfg.Sites))
	}
	if cfg.Sites[0].Scanner != "finviz" || cfg.Sites[2].Scanner != "otcmarkets" {
		t.Fatalf("unexpected site order: %+v", cfg.Sites)
	}
	if cfg.Filings.Location() == nil {
		t.Fatalf("expected filings location")
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
logging:
  level: debug
telegram:
  botToken: from-file
  idleDelay: 5s
filings:
  timezone: America/New_York
email:
  smtpServer: smtp.example.org
  smtpUser: bot@example.org
sites:
  - name: finviz
    scanner: finviz
    url: http://localhost/quote.ashx
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(telegramTokenEnv, "from-env")

	cfg := Load()

	if cfg.Telegram.BotToken != "from-env" {
		t.Fatalf("env should override file token, got %s", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.IdleDelay != 5*time.Second {
		t.Fatalf("unexpected idle delay: %s", cfg.Telegram.IdleDelay)
	}
	if cfg.Telegram.RetryDelay != 60*time.Second {
		t.Fatalf("retry delay should keep default, got %s", cfg.Telegram.RetryDelay)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level: %s", cfg.Logging.Level)
	}
	if len(cfg.Sites) != 1 || cfg.Sites[0].URL != "http://localhost/quote.ashx" {
		t.Fatalf("unexpected sites: %+v", cfg.Sites)
	}
	if cfg.Filings.Location().String() != "America/New_York" {
		t.Fatalf("unexpected location: %s", cfg.Filings.Location())
	}
	if cfg.Email.SMTPPort != 587 {
		t.Fatalf("smtp port should keep default, got %d", cfg.Email.SMTPPort)
	}
	if cfg.Email.FromEmail != "bot@example.org" {
		t.Fatalf("from address should fall back to smtp user, got %s", cfg.Email.FromEmail)
	}
}
