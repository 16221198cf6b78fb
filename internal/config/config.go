// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package config loads formula configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"nickandperla.net/formula/internal/eval"
	"nickandperla.net/formula/internal/provider"
	"nickandperla.net/formula/internal/suggest"
)

// Config holds all formula configuration.
type Config struct {
	Suggestions SuggestionsConfig `yaml:"suggestions"`
	Evaluation  EvaluationConfig  `yaml:"evaluation"`
	Tags        TagsConfig        `yaml:"tags"`
	Filter      FilterConfig      `yaml:"filter"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// SuggestionsConfig configures where tag candidates come from.
type SuggestionsConfig struct {
	URL     string `yaml:"url"`
	File    string `yaml:"file"`
	Watch   bool   `yaml:"watch"` // reload when File changes
	Timeout string `yaml:"timeout"`
	Cache   string `yaml:"cache"` // SQLite path; empty disables the cache
}

// EvaluationConfig configures the evaluator.
type EvaluationConfig struct {
	UnresolvedTagValue float64 `yaml:"unresolved_tag_value"`
}

// TagsConfig configures tag option choices.
type TagsConfig struct {
	Options []string `yaml:"options,omitempty"` // empty uses the session defaults
}

// FilterConfig configures the suggestion dropdown.
type FilterConfig struct {
	Mode  string `yaml:"mode"` // substring or fuzzy
	Limit int    `yaml:"limit"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Suggestions: SuggestionsConfig{
			URL:     provider.DefaultURL,
			Watch:   true,
			Timeout: "10s",
		},
		Evaluation: EvaluationConfig{
			UnresolvedTagValue: eval.DefaultUnresolvedValue,
		},
		Filter: FilterConfig{
			Mode:  suggest.ModeSubstring.String(),
			Limit: 8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FORMULA_SUGGESTIONS_URL"); v != "" {
		c.Suggestions.URL = v
	}
	if v := os.Getenv("FORMULA_SUGGESTIONS_FILE"); v != "" {
		c.Suggestions.File = v
	}
	if v := os.Getenv("FORMULA_CACHE"); v != "" {
		c.Suggestions.Cache = v
	}
	if v := os.Getenv("FORMULA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FORMULA_UNRESOLVED_TAG_VALUE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Evaluation.UnresolvedTagValue = f
		}
	}
}

// GetTimeout returns the fetch timeout, defaulting to 10s.
func (c *Config) GetTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Suggestions.Timeout); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

// FilterMode returns the parsed dropdown mode.
func (c *Config) FilterMode() suggest.Mode {
	m, _ := suggest.ParseMode(c.Filter.Mode)
	return m
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if c.Suggestions.Timeout != "" {
		if _, err := time.ParseDuration(c.Suggestions.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("suggestions.timeout: %w", err))
		}
	}
	if _, err := suggest.ParseMode(c.Filter.Mode); err != nil {
		errs = append(errs, fmt.Errorf("filter.mode: %w", err))
	}
	if c.Filter.Limit < 0 {
		errs = append(errs, errors.New("filter.limit must not be negative"))
	}
	seen := make(map[string]bool)
	for _, o := range c.Tags.Options {
		if strings.TrimSpace(o) == "" {
			errs = append(errs, errors.New("tags.options must not contain blank labels"))
			continue
		}
		if seen[o] {
			errs = append(errs, fmt.Errorf("tags.options: duplicate %q", o))
		}
		seen[o] = true
	}
	return errors.Join(errs...)
}
