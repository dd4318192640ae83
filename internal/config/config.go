// Package config assembles runtime settings from defaults, an optional YAML
// file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRemoteTimeout = 15 * time.Second
	MaxRemoteTimeout     = 30 * time.Second
)

// Config holds the application configuration
type Config struct {
	Remote    RemoteConfig `yaml:"remote"`
	RulesPath string       `yaml:"rules"`
	AuditPath string       `yaml:"audit_db"`
	Debug     bool         `yaml:"debug"`
}

// RemoteConfig describes the remote model
type RemoteConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	// Timeout accepts Go durations ("20s") or plain seconds ("20")
	Timeout string `yaml:"timeout"`

	timeout time.Duration
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Remote: RemoteConfig{
			Provider: "openai",
			timeout:  DefaultRemoteTimeout,
		},
	}
}

// LoadFrom overlays a YAML file on the defaults. A missing file is not an error.
func LoadFrom(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// Load reads configuration from the process environment
func Load() (*Config, error) {
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration using getenv. FLOWPILOT_CONFIG names an
// optional YAML file; individual variables override it.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()
	if path := getenv("FLOWPILOT_CONFIG"); path != "" {
		var err error
		if cfg, err = LoadFrom(expandPath(path)); err != nil {
			return nil, err
		}
	}

	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.Remote.APIKey, "OPENAI_API_KEY")
	set(&cfg.Remote.BaseURL, "OPENAI_BASE_URL")
	set(&cfg.Remote.Provider, "FLOWPILOT_PROVIDER")
	set(&cfg.Remote.Model, "FLOWPILOT_MODEL")
	set(&cfg.Remote.Timeout, "FLOWPILOT_REMOTE_TIMEOUT")
	set(&cfg.RulesPath, "FLOWPILOT_RULES")
	set(&cfg.AuditPath, "FLOWPILOT_AUDIT_DB")

	if v := getenv("DEBUG"); v != "" {
		debug, err := cast.ToBoolE(v)
		if err != nil {
			return nil, fmt.Errorf("DEBUG: %w", err)
		}
		cfg.Debug = debug
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RemoteConfigured reports whether the remote engine can be used
func (c *Config) RemoteConfigured() bool {
	switch c.Remote.Provider {
	case "ollama":
		return true
	case "openai":
		return c.Remote.APIKey != ""
	}
	return false
}

// RemoteTimeout is the parsed, capped remote timeout
func (c *Config) RemoteTimeout() time.Duration {
	return c.Remote.timeout
}

// finish normalizes and validates fields after all sources are applied
func (c *Config) finish() error {
	c.Remote.Provider = strings.ToLower(strings.TrimSpace(c.Remote.Provider))
	if c.Remote.Provider == "" {
		c.Remote.Provider = "openai"
	}
	if c.Remote.Provider != "openai" && c.Remote.Provider != "ollama" {
		return fmt.Errorf("unknown provider %q", c.Remote.Provider)
	}

	timeout, err := parseTimeout(c.Remote.Timeout)
	if err != nil {
		return fmt.Errorf("remote timeout: %w", err)
	}
	c.Remote.timeout = timeout

	c.RulesPath = expandPath(c.RulesPath)
	c.AuditPath = expandPath(c.AuditPath)
	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultRemoteTimeout, nil
	}

	var d time.Duration
	if secs, err := cast.ToFloat64E(s); err == nil {
		d = time.Duration(secs * float64(time.Second))
	} else if d, err = cast.ToDurationE(s); err != nil {
		return 0, err
	}

	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	if d > MaxRemoteTimeout {
		d = MaxRemoteTimeout
	}
	return d, nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
