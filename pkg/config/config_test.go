package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := DefaultConfig()
	if cfg.API.BaseURL != def.API.BaseURL || cfg.Server.Port != def.Server.Port || cfg.Session.CookieName != "token" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlData := `
server:
  host: 127.0.0.1
  port: 9090
api:
  base_url: http://api.internal
  timeout: 3s
log_level: debug
`
	if err := os.WriteFile(path, []byte(yamlData), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONSOLE_API_BASE_URL", "http://override.internal")
	t.Setenv("CONSOLE_SESSION_SECURE_COOKIE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr() != "127.0.0.1:9090" {
		t.Errorf("expected 127.0.0.1:9090, got %s", cfg.Addr())
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.API.Timeout)
	}
	if cfg.API.BaseURL != "http://override.internal" {
		t.Errorf("expected env override, got %s", cfg.API.BaseURL)
	}
	if !cfg.Session.SecureCookie {
		t.Error("expected secure cookie from env")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
	// Untouched by file and env.
	if cfg.Session.CookieName != "token" {
		t.Errorf("expected default cookie name, got %s", cfg.Session.CookieName)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("server: [unterminated"), 0644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }},
		{"empty secret", func(c *Config) { c.Session.Secret = "" }},
		{"empty cookie name", func(c *Config) { c.Session.CookieName = "" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"negative workspace idle", func(c *Config) { c.Session.WorkspaceIdle = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.Port = 7070
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 7070 {
		t.Errorf("expected port 7070, got %d", loaded.Server.Port)
	}
}
