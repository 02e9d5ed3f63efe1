// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chebxuan/2D-HAAR1/qsim"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/haar"
)

var envKeys = []string{
	"LOG_LEVEL", "LOG_PRETTY", "QHAAR_DATA_BITS", "QHAAR_A", "QHAAR_B", "QHAAR_C", "QHAAR_D",
	"QSIM_BACKEND", "QHAAR_WORKERS", "QHAAR_SHOTS", "QHAAR_SEED", "QHAAR_MAX_BLOCKS", "QHAAR_UPSAMPLE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, haar.DefaultParams(), cfg.Params())
	assert.Equal(t, qsim.BackendAuto, cfg.SimBackend())
	assert.Equal(t, uint64(13), cfg.Seed)
	assert.Equal(t, 2048, cfg.MaxBlocks)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("QHAAR_DATA_BITS", "3")
	t.Setenv("QHAAR_A", "6")
	t.Setenv("QSIM_BACKEND", "sparse")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("QHAAR_WORKERS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.DataBits)
	assert.Equal(t, 6, cfg.A)
	assert.Equal(t, qsim.BackendSparse, cfg.SimBackend())
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 0, cfg.Workers)
}

func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even to
	// the empty string, so unset the ones the file provides.
	os.Unsetenv("QHAAR_SHOTS")
	os.Unsetenv("QHAAR_D")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("QHAAR_SHOTS=512\nQHAAR_D=9\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("QHAAR_SHOTS")
		os.Unsetenv("QHAAR_D")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Shots)
	assert.Equal(t, 9, cfg.D)
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{DataBits: 4, Backend: "auto"}
	}
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"data bits", func(c *Config) { c.DataBits = 9 }},
		{"backend", func(c *Config) { c.Backend = "gpu" }},
		{"workers", func(c *Config) { c.Workers = -1 }},
		{"shots", func(c *Config) { c.Shots = -2 }},
		{"max blocks", func(c *Config) { c.MaxBlocks = -1 }},
	}
	require.NoError(t, valid().Validate())
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
