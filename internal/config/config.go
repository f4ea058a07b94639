// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

// Package config loads the service configuration with Koanf v2 from
// layered sources, highest priority last:
//
//  1. Built-in defaults
//  2. Config file (config.yaml, or the path in TESSERO_CONFIG)
//  3. Environment variables prefixed TESSERO_ (TESSERO_SERVER__PORT,
//     TESSERO_ENGINE__DEFAULT_COUNT, ...)
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/Wesley3141/tessero/internal/recommend"
)

// DefaultConfigPaths lists the paths searched for a config file, in
// order. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tessero/config.yaml",
	"/etc/tessero/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "TESSERO_CONFIG"

// envPrefix is the prefix for environment variable overrides.
const envPrefix = "TESSERO_"

// Config is the root service configuration.
type Config struct {
	Server  ServerConfig     `koanf:"server"`
	Logging LoggingConfig    `koanf:"logging"`
	Engine  recommend.Config `koanf:"engine"`

	// SnapshotPath is where the trained model snapshot lives. The
	// server loads it at startup when present and rewrites it after
	// each successful training run.
	SnapshotPath string `koanf:"snapshot_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSAllowedOrigins lists allowed CORS origins. Empty allows all.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Engine:       *recommend.DefaultConfig(),
		SnapshotPath: "data/tessero_model.snapshot",
	}
}

// Load builds the configuration from defaults, an optional config
// file, and environment overrides, then validates it. An explicit path
// takes precedence over TESSERO_CONFIG and the default search paths.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if cfgPath := resolveConfigPath(path); cfgPath != "" {
		if err := k.Load(file.Provider(cfgPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", cfgPath, err)
		}
	}

	// Double underscore separates nesting levels so single underscores
	// survive in key names: TESSERO_SERVER__PORT -> server.port,
	// TESSERO_ENGINE__DEFAULT_COUNT -> engine.default_count.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveConfigPath picks the config file to load, if any.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.SnapshotPath == "" {
		return fmt.Errorf("snapshot_path must not be empty")
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	return nil
}
