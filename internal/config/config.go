// Package config loads the conceptcheck settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/conceptcheck/internal/errors"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// AutoModel selects the data model of the host.
const AutoModel = "auto"

// Environment overrides applied after the file is read.
const (
	EnvDataModel = "CONCEPTCHECK_DATA_MODEL"
	EnvLogLevel  = "CONCEPTCHECK_LOG_LEVEL"
)

// Config holds all conceptcheck settings.
type Config struct {
	// DataModel is lp64, llp64, ilp32 or auto.
	DataModel string `yaml:"data_model"`
	// CharSigned overrides the signedness of plain char when set.
	CharSigned *bool         `yaml:"char_signed,omitempty"`
	Logging    LoggingConfig `yaml:"logging"`
	Batch      BatchConfig   `yaml:"batch"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// BatchConfig bounds concurrent query evaluation.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataModel: AutoModel,
		Logging:   LoggingConfig{Level: "info"},
		Batch:     BatchConfig{Workers: runtime.NumCPU()},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvDataModel); v != "" {
		c.DataModel = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate rejects unknown data models, log levels and negative worker counts.
func (c *Config) Validate() error {
	c.DataModel = strings.ToLower(strings.TrimSpace(c.DataModel))
	if c.DataModel == "" {
		c.DataModel = AutoModel
	}
	if c.DataModel != AutoModel {
		if _, err := types.ModelByName(c.DataModel); err != nil {
			return errors.InvalidConfig("data_model", err.Error())
		}
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if !logLevels[c.Logging.Level] {
		return errors.InvalidConfig("logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level))
	}
	if c.Batch.Workers < 0 {
		return errors.InvalidConfig("batch.workers", "must not be negative")
	}
	return nil
}

// Model resolves the configured data model, detecting the host for auto.
func (c *Config) Model() (types.DataModel, error) {
	var (
		m   types.DataModel
		err error
	)
	if c.DataModel == "" || c.DataModel == AutoModel {
		m = HostModel()
	} else if m, err = types.ModelByName(c.DataModel); err != nil {
		return types.DataModel{}, errors.InvalidConfig("data_model", err.Error())
	}
	if c.CharSigned != nil {
		m.CharSigned = *c.CharSigned
	}
	return m, nil
}
