// pbkdf2-identifier-go: PBKDF2 parameter identification
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dark-bio/pbkdf2-identifier-go/internal/config"
	"github.com/dark-bio/pbkdf2-identifier-go/prf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Load_Defaults(t *testing.T) {
	clearEnv(t)
	setupNoConfigFile(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.MaxIterations, "default bound should be left to the library")
	assert.Equal(t, "base64", cfg.Format)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, "all", cfg.Algorithm)
	assert.False(t, cfg.Parallel)
}

func TestConfig_Load_FromFile(t *testing.T) {
	tests := []struct {
		name       string
		fileConfig string
		want       config.Config
		wantError  bool
	}{
		{
			name: "all fields",
			fileConfig: `max_iterations: 5000
format: hex
output: json
algorithm: HMAC-SHA256
parallel: true`,
			want: config.Config{MaxIterations: 5000, Format: "hex", Output: "json", Algorithm: "HMAC-SHA256", Parallel: true},
		},
		{
			name:       "only bound",
			fileConfig: `max_iterations: 42`,
			want:       config.Config{MaxIterations: 42, Format: "base64", Output: "text", Algorithm: "all"},
		},
		{
			name:       "invalid yaml",
			fileConfig: "max_iterations: [",
			wantError:  true,
		},
		{
			name:       "unknown algorithm",
			fileConfig: `algorithm: md5`,
			wantError:  true,
		},
		{
			name:       "negative bound",
			fileConfig: `max_iterations: -1`,
			wantError:  true,
		},
		{
			name:       "unknown output",
			fileConfig: `output: xml`,
			wantError:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeConfigFile(t, tt.fileConfig)

			cfg, err := config.Load(path)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *cfg)
		})
	}
}

func TestConfig_Load_DefaultLocation(t *testing.T) {
	clearEnv(t)
	dir := setupNoConfigFile(t)

	path := config.DefaultPath()
	require.NotEmpty(t, path)
	require.True(t, filepath.IsAbs(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("output: yaml\n"), 0o600))
	assert.Contains(t, path, dir)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output)
}

func TestConfig_Load_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Load_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "max_iterations: 100\noutput: json\n")

	t.Setenv("PBKDF2ID_MAX", "2000")
	t.Setenv("PBKDF2ID_OUTPUT", "cbor")
	t.Setenv("PBKDF2ID_FORMAT", "hex")
	t.Setenv("PBKDF2ID_ALGORITHM", "sha1")
	t.Setenv("PBKDF2ID_PARALLEL", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.MaxIterations)
	assert.Equal(t, "cbor", cfg.Output)
	assert.Equal(t, "hex", cfg.Format)
	assert.Equal(t, "sha1", cfg.Algorithm)
	assert.True(t, cfg.Parallel)
}

func TestConfig_Load_InvalidEnv(t *testing.T) {
	tests := map[string]string{
		"PBKDF2ID_MAX":      "lots",
		"PBKDF2ID_PARALLEL": "maybe",
		"PBKDF2ID_FORMAT":   "base32",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			setupNoConfigFile(t)
			t.Setenv(key, value)

			_, err := config.Load("")
			assert.Error(t, err)
		})
	}
}

func TestConfig_Primitives(t *testing.T) {
	cfg := config.Default()
	ps, err := cfg.Primitives()
	require.NoError(t, err)
	assert.Equal(t, prf.Primitives(), ps)

	cfg.Algorithm = "ALL"
	ps, err = cfg.Primitives()
	require.NoError(t, err)
	assert.Len(t, ps, len(prf.Primitives()))

	cfg.Algorithm = "HMAC-SHA3-512"
	ps, err = cfg.Primitives()
	require.NoError(t, err)
	assert.Equal(t, []prf.Primitive{prf.HMACSHA3_512}, ps)

	cfg.Algorithm = "whirlpool"
	_, err = cfg.Primitives()
	assert.ErrorIs(t, err, prf.ErrUnknownPrimitive)
}

// clearEnv unsets every variable the loader reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PBKDF2ID_MAX", "PBKDF2ID_FORMAT", "PBKDF2ID_OUTPUT", "PBKDF2ID_ALGORITHM", "PBKDF2ID_PARALLEL"} {
		t.Setenv(key, "")
	}
}

// setupNoConfigFile points the user configuration directory at an empty
// temporary directory and returns it.
func setupNoConfigFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)
	return dir
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
