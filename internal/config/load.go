// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML file at path, applies defaults and validates the
// result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides is like LoadConfig, then applies the GLREG_*
// environment variables on top of the file. An empty path skips the file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("after environment overrides: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("after environment overrides: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv("GLREG_SOURCE_PATH"); val != "" {
		cfg.Source.Path = val
	}
	if val := os.Getenv("GLREG_SOURCE_URL"); val != "" {
		cfg.Source.URL = val
	}
	if val := os.Getenv("GLREG_SOURCE_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return ValidationError{Errors: []FieldError{
				{"source.timeout", fmt.Sprintf("GLREG_SOURCE_TIMEOUT: invalid duration %q", val)},
			}}
		}
		cfg.Source.Timeout = d
	}
	if val := os.Getenv("GLREG_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("GLREG_LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("GLREG_OUTPUT_FORMAT"); val != "" {
		cfg.Output.Format = val
	}
	return nil
}
