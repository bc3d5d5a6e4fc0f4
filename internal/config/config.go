package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Configuration represents the complete application configuration.
type Configuration struct {
	Global  GlobalConfig  `yaml:"global"`
	Mount   MountConfig   `yaml:"mount"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GlobalConfig represents global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// MountConfig represents mount-specific settings. The namespace itself is
// read-only by construction, so there is no read_only toggle; the flag is
// always passed to the kernel.
type MountConfig struct {
	MountPoint string `yaml:"mount_point"`
	FSName     string `yaml:"fsname"`
	Subtype    string `yaml:"subtype"`
	AllowOther bool   `yaml:"allow_other"`
	AllowRoot  bool   `yaml:"allow_root"`
	Debug      bool   `yaml:"debug"`

	// Kernel-side caching of attributes and entries. The namespace is
	// immutable, so generous timeouts are safe.
	AttrTimeout  time.Duration `yaml:"attr_timeout"`
	EntryTimeout time.Duration `yaml:"entry_timeout"`
}

// MetricsConfig represents metrics endpoint settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// NewDefault returns a configuration with sensible defaults.
func NewDefault() *Configuration {
	return &Configuration{
		Global: GlobalConfig{
			LogLevel: "INFO",
			LogFile:  "",
		},
		Mount: MountConfig{
			FSName:       "synthfs",
			Subtype:      "synth",
			AllowOther:   false,
			AllowRoot:    false,
			Debug:        false,
			AttrTimeout:  time.Minute,
			EntryTimeout: time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Port:      9180,
			Path:      "/metrics",
			Namespace: "synthfs",
		},
	}
}

// LoadFromFile loads configuration from a YAML file.
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables.
func (c *Configuration) LoadFromEnv() error {
	if val := os.Getenv("SYNTHFS_LOG_LEVEL"); val != "" {
		c.Global.LogLevel = val
	}
	if val := os.Getenv("SYNTHFS_LOG_FILE"); val != "" {
		c.Global.LogFile = val
	}

	if val := os.Getenv("SYNTHFS_MOUNT_POINT"); val != "" {
		c.Mount.MountPoint = val
	}
	if val := os.Getenv("SYNTHFS_FSNAME"); val != "" {
		c.Mount.FSName = val
	}
	if val := os.Getenv("SYNTHFS_ALLOW_OTHER"); val != "" {
		c.Mount.AllowOther = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("SYNTHFS_DEBUG"); val != "" {
		c.Mount.Debug = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("SYNTHFS_ATTR_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.Mount.AttrTimeout = d
		}
	}

	if val := os.Getenv("SYNTHFS_METRICS_ENABLED"); val != "" {
		c.Metrics.Enabled = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("SYNTHFS_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Metrics.Port = port
		}
	}

	return nil
}

// SaveToFile saves the configuration to a YAML file.
func (c *Configuration) SaveToFile(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Configuration) Validate() error {
	if c.Mount.MountPoint == "" {
		return fmt.Errorf("mount_point cannot be empty")
	}

	if c.Mount.AttrTimeout < 0 || c.Mount.EntryTimeout < 0 {
		return fmt.Errorf("attr_timeout and entry_timeout cannot be negative")
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
			return fmt.Errorf("metrics port %d is out of range", c.Metrics.Port)
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("metrics path must start with /")
		}
	}

	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	logLevelValid := false
	for _, level := range validLogLevels {
		if c.Global.LogLevel == level {
			logLevelValid = true
			break
		}
	}
	if !logLevelValid {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			c.Global.LogLevel, strings.Join(validLogLevels, ", "))
	}

	return nil
}
