// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/db47h/glreg/registry"
)

// FieldError is a validation error on a single field.
type FieldError struct {
	Field   string // dotted path, e.g. "logging.level"
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects all the field errors of a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "configuration validation failed"
	case 1:
		return "configuration validation failed: " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

var (
	LogLevels     = []string{"debug", "info", "warn", "warning", "error"}
	LogFormats    = []string{"text", "json"}
	OutputFormats = []string{"text", "json", "yaml", "cbor"}
)

// Validate checks cfg and returns a ValidationError listing every problem.
func Validate(cfg *Config) error {
	var errs []FieldError

	if cfg.Source.Timeout <= 0 {
		errs = append(errs, FieldError{"source.timeout", "must be positive"})
	}
	if !oneOf(strings.ToLower(cfg.Logging.Level), LogLevels) {
		errs = append(errs, FieldError{"logging.level", fmt.Sprintf("unknown level %q", cfg.Logging.Level)})
	}
	if !oneOf(cfg.Logging.Format, LogFormats) {
		errs = append(errs, FieldError{"logging.format", fmt.Sprintf("unknown format %q", cfg.Logging.Format)})
	}
	if !oneOf(cfg.Output.Format, OutputFormats) {
		errs = append(errs, FieldError{"output.format", fmt.Sprintf("unknown format %q", cfg.Output.Format)})
	}

	names := make([]string, 0, len(cfg.Targets))
	for name := range cfg.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := cfg.Targets[name]
		field := "targets." + name
		if t.API == "" {
			errs = append(errs, FieldError{field + ".api", "required"})
		}
		if _, err := registry.ParseVersion(t.Version); err != nil {
			errs = append(errs, FieldError{field + ".version", err.Error()})
		}
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// Target returns the named target as a resolve target.
func (c *Config) Target(name string) (registry.Target, error) {
	t, ok := c.Targets[name]
	if !ok {
		return registry.Target{}, fmt.Errorf("unknown target %q", name)
	}
	return registry.Target{
		API:              t.API,
		Profile:          t.Profile,
		Version:          t.Version,
		Extensions:       t.Extensions,
		WithDependencies: t.Dependencies,
	}, nil
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
