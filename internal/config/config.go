// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the glreg configuration file.
package config

import "time"

// Config is the root of the configuration file.
type Config struct {
	Source  SourceConfig            `yaml:"source"`
	Logging LoggingConfig           `yaml:"logging"`
	Output  OutputConfig            `yaml:"output"`
	Targets map[string]TargetConfig `yaml:"targets"`
}

// SourceConfig tells where the registry document comes from. Path takes
// precedence over URL.
type SourceConfig struct {
	Path    string        `yaml:"path"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

// TargetConfig is a named resolve target.
type TargetConfig struct {
	API          string   `yaml:"api"`
	Version      string   `yaml:"version"`
	Profile      string   `yaml:"profile"`
	Extensions   []string `yaml:"extensions"`
	Dependencies bool     `yaml:"dependencies"`
}

const (
	DefaultTimeout      = 30 * time.Second
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultOutputFormat = "text"
	DefaultFile         = "glreg.yaml"
)

// Default returns a configuration with all defaults applied.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// ApplyDefaults fills in the zero fields of cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = DefaultTimeout
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutputFormat
	}
	for name, t := range cfg.Targets {
		if t.Version == "" {
			t.Version = "1.0"
			cfg.Targets[name] = t
		}
	}
}
