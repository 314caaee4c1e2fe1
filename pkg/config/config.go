package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment variable overrides, e.g. CONSOLE_API_BASE_URL.
const EnvPrefix = "CONSOLE"

// Config represents the application configuration
type Config struct {
	Server    ServerConfig  `yaml:"server"`
	API       APIConfig     `yaml:"api"`
	Session   SessionConfig `yaml:"session"`
	DataDir   string        `yaml:"data_dir" split_words:"true"`
	LogLevel  string        `yaml:"log_level" split_words:"true"`
	LogFormat string        `yaml:"log_format" split_words:"true"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// APIConfig points at the remote product API
type APIConfig struct {
	BaseURL string        `yaml:"base_url" split_words:"true"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig represents the browser session cookie configuration
type SessionConfig struct {
	CookieName   string `yaml:"cookie_name" split_words:"true"`
	Secret       string `yaml:"secret"`
	SecureCookie bool   `yaml:"secure_cookie" split_words:"true"`

	// WorkspaceIdle is how long a session's product state is kept in memory
	// without requests. Zero keeps it until logout.
	WorkspaceIdle time.Duration `yaml:"workspace_idle" split_words:"true"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		API: APIConfig{
			BaseURL: "https://fakestoreapi.com",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			CookieName:    "token",
			Secret:        "product-console-secret-key-change-me",
			WorkspaceIdle: 30 * time.Minute,
		},
		DataDir:   "./data",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load loads configuration from a YAML file, then applies a .env file
// (if present) and CONSOLE_* environment variables on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, err
	}

	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields the console cannot start without
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	if c.Session.WorkspaceIdle < 0 {
		return fmt.Errorf("session.workspace_idle must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Save saves configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
