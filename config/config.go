/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    string `mapstructure:"port"`
}

type DatabaseConfig struct {
	MaxConns int32 `mapstructure:"max_conns"`
	MinConns int32 `mapstructure:"min_conns"`
}

type LedgerConfig struct {
	Currency       string `mapstructure:"currency"`
	PageSize       int    `mapstructure:"page_size"`
	StatsCacheTTLs int    `mapstructure:"stats_cache_ttl_seconds"`
	SyncOnStartup  bool   `mapstructure:"sync_on_startup"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
}

// StatsCacheTTL returns the dashboard cache TTL as a duration.
func (c *Config) StatsCacheTTL() time.Duration {
	return time.Duration(c.Ledger.StatsCacheTTLs) * time.Second
}

// Load reads configuration from the given file path. An empty path falls
// back to parishbooks.yaml in the working directory; a missing default file
// is not an error, defaults plus PB_* environment overrides still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("ledger.currency", "GHS")
	v.SetDefault("ledger.page_size", 50)
	v.SetDefault("ledger.stats_cache_ttl_seconds", 60)
	v.SetDefault("ledger.sync_on_startup", true)

	if path == "" {
		v.SetConfigName("parishbooks")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. PB_SERVER_PORT=9000
	v.SetEnvPrefix("PB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &c, nil
}
