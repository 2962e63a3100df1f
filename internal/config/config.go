// Package config holds application configuration: defaults, an optional
// YAML file, then environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/felo/header-processor/internal/rewrite"
	"gopkg.in/yaml.v3"
)

// defaultMaxUploadBytes is 32 MB
const defaultMaxUploadBytes = 32 << 20

// Config holds application configuration
type Config struct {
	// Server settings
	Host string `yaml:"host"`
	Port string `yaml:"port"`

	// Database settings. ":memory:" keeps nothing after exit.
	DBPath string `yaml:"db_path"`

	// Upload settings
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Open the default browser once the server is up
	OpenBrowser bool `yaml:"open_browser"`

	// Defaults for the headless batch mode
	Rewrite rewrite.Config `yaml:"rewrite"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Host:           "localhost",
		Port:           "8080",
		DBPath:         ":memory:",
		MaxUploadBytes: defaultMaxUploadBytes,
		OpenBrowser:    true,
		Rewrite:        rewrite.Config{RemoveReturnPath: true},
	}
}

// Load returns defaults overridden by environment variables
func Load() *Config {
	cfg := Default()
	cfg.applyEnvVars()
	return cfg
}

// LoadFromFile loads a YAML file over the defaults, then applies
// environment variables. A missing file is an error.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	cfg.applyEnvVars()

	return cfg, nil
}

// Address returns the full server address
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// URL returns the full server URL
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// applyEnvVars overrides configuration with non-empty environment variables
func (c *Config) applyEnvVars() {
	if v := os.Getenv("HP_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("HP_PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("HP_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("HP_MAX_UPLOAD_BYTES"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil && size > 0 {
			c.MaxUploadBytes = size
		}
	}
	if v := os.Getenv("HP_OPEN_BROWSER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.OpenBrowser = b
		}
	}
	if v := os.Getenv("HP_REMOVE_RETURN_PATH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Rewrite.RemoveReturnPath = b
		}
	}
}
