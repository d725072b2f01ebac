package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	campusAuth "github.com/MrEthical07/campusAuth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("CAMPUS_TOKEN_SECRET", testSecret)

	s, err := LoadSettings("", "")
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if len(s.HTTP.TrustedProxies) != 0 {
		t.Fatalf("no proxy should be trusted by default, got %v", s.HTTP.TrustedProxies)
	}
	if s.HTTP.Addr != ":8080" || s.Token.TTL != time.Hour {
		t.Fatalf("unexpected defaults: addr=%q ttl=%v", s.HTTP.Addr, s.Token.TTL)
	}

	cfg, err := s.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig: %v", err)
	}
	if string(cfg.Token.Secret) != testSecret || cfg.Registration.DefaultRole != campusAuth.RoleAdmin {
		t.Fatalf("unexpected engine config: %+v", cfg.Registration)
	}
}

func TestLoadSettingsFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "config.yml")
	err := os.WriteFile(yml, []byte(strings.Join([]string{
		"http:",
		"  addr: \":9090\"",
		"  trusted_proxies:",
		"    - 10.0.0.0/8",
		"token:",
		"  ttl: 30m",
		"  secret: " + testSecret,
		"security:",
		"  max_login_attempts: 9",
		"registration:",
		"  default_role: ROLE_STUDENT",
	}, "\n")), 0o600)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CAMPUS_SECURITY_MAX_LOGIN_ATTEMPTS", "3")

	s, err := LoadSettings(yml, "")
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if len(s.HTTP.TrustedProxies) != 1 || s.HTTP.TrustedProxies[0] != "10.0.0.0/8" {
		t.Fatalf("trusted proxies = %v", s.HTTP.TrustedProxies)
	}
	if s.HTTP.Addr != ":9090" || s.Token.TTL != 30*time.Minute {
		t.Fatalf("file values ignored: %+v", s.HTTP)
	}
	if s.Security.MaxLoginAttempts != 3 {
		t.Fatalf("env must override file, got %d", s.Security.MaxLoginAttempts)
	}

	cfg, err := s.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig: %v", err)
	}
	if cfg.Registration.DefaultRole != campusAuth.RoleStudent {
		t.Fatalf("legacy role tag not parsed: %q", cfg.Registration.DefaultRole)
	}
}

func TestLoadSettingsDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("CAMPUS_BOOTSTRAP_USERNAME=root\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("CAMPUS_BOOTSTRAP_USERNAME") })

	s, err := LoadSettings("", envFile)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Bootstrap.Username != "root" {
		t.Fatalf("dotenv value not applied: %q", s.Bootstrap.Username)
	}

	if _, err := LoadSettings("", filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestEngineConfigRejectsWeakSecret(t *testing.T) {
	t.Setenv("CAMPUS_TOKEN_SECRET", "short")

	s, err := LoadSettings("", "")
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if _, err := s.EngineConfig(); err == nil {
		t.Fatal("expected a short secret to be rejected")
	}
}
