// Package config provides YAML-based configuration loading for the
// firewood bank console.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration, loaded from fwb.yaml.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	Notify   NotifyConfig   `yaml:"notify"`
	Digest   DigestConfig   `yaml:"digest"`

	// WoodCategory names the inventory category treated as "the" firewood
	// stock for reservation purposes.
	WoodCategory string `yaml:"wood_category"`
}

// DatabaseConfig selects and configures the backing store.
type DatabaseConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "mysql"

	// sqlite
	Path string `yaml:"path"`

	// mysql
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// HTTPConfig holds settings for the JSON API server.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// NotifyConfig configures best-effort chat notifications.
type NotifyConfig struct {
	Platform string `yaml:"platform"` // "slack", "discord", or "" (disabled)
	Token    string `yaml:"token"`
	Channel  string `yaml:"channel"`
}

// DigestConfig holds cron expressions for scheduled reports.
type DigestConfig struct {
	Daily  string `yaml:"daily"`
	Weekly string `yaml:"weekly"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Backend == "" {
		c.Database.Backend = "sqlite"
	}
	if c.Database.Backend == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "fwb.db"
	}
	if c.Database.Backend == "mysql" {
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.Name == "" {
			c.Database.Name = "firewoodbank"
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.WoodCategory == "" {
		c.WoodCategory = "firewood"
	}
	if c.Digest.Daily == "" {
		c.Digest.Daily = "0 7 * * *"
	}
	if c.Digest.Weekly == "" {
		c.Digest.Weekly = "0 7 * * 1"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Backend {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("database.backend must be sqlite or mysql, got %q", c.Database.Backend))
	}
	switch c.Notify.Platform {
	case "", "slack", "discord":
	default:
		errs = append(errs, fmt.Sprintf("notify.platform must be slack, discord, or empty, got %q", c.Notify.Platform))
	}
	if c.Notify.Platform != "" {
		if c.Notify.Token == "" {
			errs = append(errs, "notify.token is required when notify.platform is set")
		}
		if c.Notify.Channel == "" {
			errs = append(errs, "notify.channel is required when notify.platform is set")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
