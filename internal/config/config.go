// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package config loads qhaar settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/chebxuan/2D-HAAR1/qsim"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/haar"
)

// Config holds application configuration
type Config struct {
	LogLevel  string
	LogPretty bool

	// Transform inputs.
	DataBits   int
	A, B, C, D int

	Backend string
	Workers int

	// Sampling: Shots > 0 draws executor-style shot counts from the exact
	// distribution.
	Shots int
	Seed  uint64

	// Image experiment.
	MaxBlocks int
	Upsample  bool
}

// Load reads configuration from environment variables, after loading the
// given .env files. With no files named, ".env" is loaded if it exists; a
// named file that cannot be read is an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	def := haar.DefaultParams()
	cfg := &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", false),
		DataBits:  getEnvAsInt("QHAAR_DATA_BITS", def.DataBits),
		A:         getEnvAsInt("QHAAR_A", def.A),
		B:         getEnvAsInt("QHAAR_B", def.B),
		C:         getEnvAsInt("QHAAR_C", def.C),
		D:         getEnvAsInt("QHAAR_D", def.D),
		Backend:   getEnv("QSIM_BACKEND", "auto"),
		Workers:   getEnvAsInt("QHAAR_WORKERS", 0),
		Shots:     getEnvAsInt("QHAAR_SHOTS", 0),
		Seed:      uint64(getEnvAsInt("QHAAR_SEED", 13)),
		MaxBlocks: getEnvAsInt("QHAAR_MAX_BLOCKS", 2048),
		Upsample:  getEnvAsBool("QHAAR_UPSAMPLE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if _, err := qsim.ParseBackend(c.Backend); err != nil {
		return fmt.Errorf("QSIM_BACKEND: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("QHAAR_WORKERS must be >= 0, got %d", c.Workers)
	}
	if c.Shots < 0 {
		return fmt.Errorf("QHAAR_SHOTS must be >= 0, got %d", c.Shots)
	}
	if c.MaxBlocks < 0 {
		return fmt.Errorf("QHAAR_MAX_BLOCKS must be >= 0, got %d", c.MaxBlocks)
	}
	return nil
}

// Params returns the configured transform inputs.
func (c *Config) Params() haar.Params {
	return haar.Params{DataBits: c.DataBits, A: c.A, B: c.B, C: c.C, D: c.D}
}

// SimBackend returns the parsed backend. Validate guarantees it parses.
func (c *Config) SimBackend() qsim.Backend {
	b, _ := qsim.ParseBackend(c.Backend)
	return b
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
