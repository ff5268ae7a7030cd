// pbkdf2-identifier-go: PBKDF2 parameter identification
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the defaults of the pbkdf2id command line tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dark-bio/pbkdf2-identifier-go/internal/encodingext"
	"github.com/dark-bio/pbkdf2-identifier-go/internal/report"
	"github.com/dark-bio/pbkdf2-identifier-go/prf"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "pbkdf2id"
	configFileName = "config.yaml"

	envMax       = "PBKDF2ID_MAX"
	envFormat    = "PBKDF2ID_FORMAT"
	envOutput    = "PBKDF2ID_OUTPUT"
	envAlgorithm = "PBKDF2ID_ALGORITHM"
	envParallel  = "PBKDF2ID_PARALLEL"

	// AllAlgorithms selects a search over every supported primitive.
	AllAlgorithms = "all"
)

// Config holds the tunable defaults of a search. A zero MaxIterations selects
// the library default bound.
type Config struct {
	MaxIterations int    `yaml:"max_iterations"`
	Format        string `yaml:"format"`
	Output        string `yaml:"output"`
	Algorithm     string `yaml:"algorithm"`
	Parallel      bool   `yaml:"parallel"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format:    string(encodingext.Base64),
		Output:    string(report.FormatText),
		Algorithm: AllAlgorithms,
	}
}

// Load loads configuration from file, environment variables, and applies
// defaults. Precedence order (highest to lowest):
// 1. Environment variables
// 2. Config file
// 3. Defaults
//
// An empty path selects the file in the user configuration directory, which
// may be missing. An explicitly given path must exist.
//
// Command line flags are applied by the caller after Load.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the location of the user configuration file, or an
// empty string if the user configuration directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, configFileName)
}

// loadFromFile merges the non-zero values of a YAML config file.
func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - path is chosen by the user
	if err != nil {
		return err
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if file.MaxIterations != 0 {
		c.MaxIterations = file.MaxIterations
	}
	if file.Format != "" {
		c.Format = file.Format
	}
	if file.Output != "" {
		c.Output = file.Output
	}
	if file.Algorithm != "" {
		c.Algorithm = file.Algorithm
	}
	if file.Parallel {
		c.Parallel = true
	}
	return nil
}

// loadFromEnv overrides values from environment variables.
func (c *Config) loadFromEnv() error {
	if s := os.Getenv(envMax); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", envMax, s, err)
		}
		c.MaxIterations = n
	}
	if s := os.Getenv(envFormat); s != "" {
		c.Format = s
	}
	if s := os.Getenv(envOutput); s != "" {
		c.Output = s
	}
	if s := os.Getenv(envAlgorithm); s != "" {
		c.Algorithm = s
	}
	if s := os.Getenv(envParallel); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", envParallel, s, err)
		}
		c.Parallel = b
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("invalid max iterations %d: must not be negative", c.MaxIterations)
	}
	if _, err := encodingext.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("invalid input format: %w", err)
	}
	if _, err := report.ParseFormat(c.Output); err != nil {
		return err
	}
	if _, err := c.Primitives(); err != nil {
		return err
	}
	return nil
}

// Primitives resolves the configured algorithm into the primitives to search.
func (c *Config) Primitives() ([]prf.Primitive, error) {
	if strings.EqualFold(strings.TrimSpace(c.Algorithm), AllAlgorithms) {
		return prf.Primitives(), nil
	}
	p, err := prf.Parse(c.Algorithm)
	if err != nil {
		return nil, err
	}
	return []prf.Primitive{p}, nil
}
