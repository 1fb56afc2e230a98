package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
	return configPath
}

func keepAppConfig(t *testing.T) {
	t.Helper()
	original := AppConfig
	t.Cleanup(func() {
		AppConfig = original
	})
}

func TestLoadConfigSuccess(t *testing.T) {
	keepAppConfig(t)

	configPath := writeConfig(t, `{
		"database": {
			"driver": "postgres",
			"host": "localhost",
			"user": "test-user",
			"password": "test-pass",
			"dbname": "testdb",
			"port": 5433,
			"sslmode": "disable"
		},
		"telegram": {
			"token": "test-token"
		},
		"quiz": {
			"inactivity_timeout": "5m"
		}
	}`)

	if err := LoadConfig(configPath); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if AppConfig.Database.Host != "localhost" {
		t.Errorf("expected host to be localhost, got %q", AppConfig.Database.Host)
	}
	if AppConfig.Database.Port != 5433 {
		t.Errorf("expected port to be 5433, got %d", AppConfig.Database.Port)
	}
	if AppConfig.Telegram.Token != "test-token" {
		t.Errorf("expected token to be test-token, got %q", AppConfig.Telegram.Token)
	}
	if AppConfig.Quiz.InactivityTimeout.Duration != 5*time.Minute {
		t.Errorf("expected quiz timeout 5m, got %v", AppConfig.Quiz.InactivityTimeout)
	}
	if AppConfig.Verification.CodeTTL.Duration != 10*time.Minute {
		t.Errorf("expected default code ttl 10m, got %v", AppConfig.Verification.CodeTTL)
	}
}

func TestLoadConfigDefaultsToSQLite(t *testing.T) {
	keepAppConfig(t)

	configPath := writeConfig(t, `{"telegram": {"token": "abc"}}`)
	if err := LoadConfig(configPath); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if AppConfig.Database.Driver != DriverSQLite || AppConfig.Database.Path != "lingo.db" {
		t.Fatalf("expected sqlite defaults, got %+v", AppConfig.Database)
	}
	if AppConfig.Telegram.RateLimit != 2 || AppConfig.Telegram.RateBurst != 5 {
		t.Fatalf("expected rate limit defaults, got %+v", AppConfig.Telegram)
	}
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	keepAppConfig(t)

	t.Setenv("LINGO_TELEGRAM_TELEGRAM_TOKEN", "from-env")
	t.Setenv("LINGO_LOGGING_LOG_LEVEL", "debug")
	t.Setenv("LINGO_VERIFICATION_VERIFICATION_CODE_TTL", "90s")

	configPath := writeConfig(t, `{"telegram": {"token": "from-file"}}`)
	if err := LoadConfig(configPath); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if AppConfig.Telegram.Token != "from-env" {
		t.Fatalf("expected env token override, got %q", AppConfig.Telegram.Token)
	}
	if AppConfig.Logging.Level != "debug" {
		t.Fatalf("expected env log level override, got %q", AppConfig.Logging.Level)
	}
	if AppConfig.Verification.CodeTTL.Duration != 90*time.Second {
		t.Fatalf("expected env code ttl override, got %v", AppConfig.Verification.CodeTTL)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	keepAppConfig(t)

	if err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error when loading a missing config file")
	}
}

func TestLoadConfigRejectsMissingToken(t *testing.T) {
	keepAppConfig(t)
	t.Setenv("TELEGRAM_TOKEN", "")

	configPath := writeConfig(t, `{"database": {"driver": "sqlite", "path": "x.db"}}`)
	err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "telegram token is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := Defaults()
	cfg.Telegram.Token = "t"
	cfg.Database.Driver = "mysql"
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "unsupported database driver") {
		t.Fatalf("expected unsupported driver error, got %v", err)
	}
}
