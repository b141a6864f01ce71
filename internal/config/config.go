// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the daemon.
type Config struct {
	DataDir string `yaml:"data_dir"`
	LogFile string `yaml:"log_file"`

	SampleIntervalSeconds   int `yaml:"sample_interval_seconds"`
	EvaluateIntervalSeconds int `yaml:"evaluate_interval_seconds"`

	RetentionDays int `yaml:"retention_days"`

	// Percentage thresholds for limit/goal status boundaries.
	WarningThresholdPercent  int `yaml:"warning_threshold_percent"`
	ExceededThresholdPercent int `yaml:"exceeded_threshold_percent"`

	EmergencyGrantMinutes int `yaml:"emergency_grant_minutes"`

	// SelfAppName is never tracked or blocked.
	SelfAppName string `yaml:"self_app_name"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}

	dataDir := filepath.Join(home, ".local", "share", "wellbeingd")
	return &Config{
		DataDir:                  dataDir,
		LogFile:                  filepath.Join(dataDir, "wellbeingd.log"),
		SampleIntervalSeconds:    3,
		EvaluateIntervalSeconds:  30,
		RetentionDays:            90,
		WarningThresholdPercent:  80,
		ExceededThresholdPercent: 100,
		EmergencyGrantMinutes:    10,
		SelfAppName:              "Wellbeingd",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}
	return filepath.Join(home, ".config", "wellbeingd", "config.yaml")
}

// Load reads the config file at path, filling missing fields with defaults.
// A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyFloors()
	return cfg, nil
}

// applyFloors keeps misconfigured intervals from spinning the tick loop.
func (c *Config) applyFloors() {
	if c.SampleIntervalSeconds < 1 {
		c.SampleIntervalSeconds = 1
	}
	if c.EvaluateIntervalSeconds < c.SampleIntervalSeconds {
		c.EvaluateIntervalSeconds = c.SampleIntervalSeconds
	}
	if c.RetentionDays < 1 {
		c.RetentionDays = 1
	}
	if c.EmergencyGrantMinutes < 1 {
		c.EmergencyGrantMinutes = 1
	}
}

// SampleInterval returns the sampling tick interval.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.SampleIntervalSeconds) * time.Second
}

// EvaluateInterval returns the policy evaluation tick interval.
func (c *Config) EvaluateInterval() time.Duration {
	return time.Duration(c.EvaluateIntervalSeconds) * time.Second
}

// EmergencyGrant returns the emergency access grant window.
func (c *Config) EmergencyGrant() time.Duration {
	return time.Duration(c.EmergencyGrantMinutes) * time.Minute
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
