package cfg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SOUBLR_ENV_FILE", "SOUBLR_ASSUME", "SOUBLR_LOG_FILE", "SOUBLR_FOOTER", "SOUBLR_TIMEOUT", "SOUBLR_PLATFORM_TAG", "SOUBLR_API_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadPositionalArgs(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load([]string{"export.rss", "creds.json"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.FeedPath != "export.rss" {
		t.Errorf("Expected feed path 'export.rss', got '%s'", cfg.FeedPath)
	}
	if cfg.CredentialsPath != "creds.json" {
		t.Errorf("Expected credentials path 'creds.json', got '%s'", cfg.CredentialsPath)
	}
	if cfg.Footer != DefaultFooter {
		t.Errorf("Expected default footer, got '%s'", cfg.Footer)
	}
	if cfg.PlatformTag != "soup.io" {
		t.Errorf("Expected platform tag 'soup.io', got '%s'", cfg.PlatformTag)
	}
	if cfg.GetTimeout() != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", cfg.GetTimeout())
	}
	if cfg.APIURL != "https://api.tumblr.com" {
		t.Errorf("Expected default API URL, got '%s'", cfg.APIURL)
	}
	if cfg.LogFile == "" {
		t.Error("Expected log file to be derived from program name")
	}
}

func TestLoadFlags(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load([]string{
		"--assume=y", "--log-file=/tmp/x.log", "--timeout=5", "--dry-run",
		"--api-url=http://localhost:9999/", "export.rss", "creds.json",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Assume != "yes" {
		t.Errorf("Expected assume 'yes', got '%s'", cfg.Assume)
	}
	if cfg.LogFile != "/tmp/x.log" {
		t.Errorf("Expected log file '/tmp/x.log', got '%s'", cfg.LogFile)
	}
	if cfg.GetTimeout() != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.GetTimeout())
	}
	if !cfg.DryRun {
		t.Error("Expected dry run to be enabled")
	}
	if cfg.APIURL != "http://localhost:9999" {
		t.Errorf("Expected trailing slash to be trimmed, got '%s'", cfg.APIURL)
	}
}

func TestLoadMissingArgs(t *testing.T) {
	isolateEnv(t)

	_, err := Load([]string{"export.rss"})
	if !errors.Is(err, ErrUsage) {
		t.Errorf("Expected ErrUsage, got: %v", err)
	}
}

func TestLoadTooManyArgs(t *testing.T) {
	isolateEnv(t)

	_, err := Load([]string{"export.rss", "credentials.json", "extra"})
	if !errors.Is(err, ErrUsage) {
		t.Errorf("Expected ErrUsage, got: %v", err)
	}
}

func TestLoadInvalidAssume(t *testing.T) {
	isolateEnv(t)

	_, err := Load([]string{"--assume=maybe", "export.rss", "creds.json"})
	if err == nil {
		t.Error("Expected error for invalid assume value")
	}
}

func TestLoadVersionWithoutArgs(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load([]string{"--version"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !cfg.ShowVersion {
		t.Error("Expected ShowVersion to be set")
	}
}

func TestLoadEnvFile(t *testing.T) {
	isolateEnv(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envFile, []byte("SOUBLR_PLATFORM_TAG=imported\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SOUBLR_ENV_FILE", envFile)

	cfg, err := Load([]string{"export.rss", "creds.json"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.PlatformTag != "imported" {
		t.Errorf("Expected platform tag from env file, got '%s'", cfg.PlatformTag)
	}
}

func TestLoadEnvFileFlag(t *testing.T) {
	isolateEnv(t)

	envFile := filepath.Join(t.TempDir(), "flag.env")
	if err := os.WriteFile(envFile, []byte("SOUBLR_PLATFORM_TAG=from-flag\nSOUBLR_TIMEOUT=5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{"--footer", "x", "--env-file", envFile, "export.rss", "creds.json"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.PlatformTag != "from-flag" {
		t.Errorf("Expected platform tag from env file, got '%s'", cfg.PlatformTag)
	}
	if cfg.Timeout != 5 {
		t.Errorf("Expected timeout 5 from env file, got %d", cfg.Timeout)
	}
	if cfg.FeedPath != "export.rss" {
		t.Errorf("Expected feed path 'export.rss', got '%s'", cfg.FeedPath)
	}
}

func TestLoadEnvFileFlagMissing(t *testing.T) {
	isolateEnv(t)

	_, err := Load([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env"), "export.rss", "creds.json"})
	if err == nil {
		t.Error("Expected error for a missing explicit env file")
	}
}

func TestDeriveLogPath(t *testing.T) {
	tests := map[string]string{
		"soublr":         "soublr.log",
		"./bin/soublr":   "./bin/soublr.log",
		"soublr.exe":     "soublr.log",
		"/opt/soublr.py": "/opt/soublr.log",
	}

	for program, expected := range tests {
		if got := DeriveLogPath(program); got != expected {
			t.Errorf("DeriveLogPath(%q): expected '%s', got '%s'", program, expected, got)
		}
	}
}
