/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for explicit missing config file")
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("default port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Ledger.PageSize != 50 {
		t.Fatalf("default page size = %d, want 50", cfg.Ledger.PageSize)
	}
	if cfg.StatsCacheTTL() != 60*time.Second {
		t.Fatalf("default stats cache TTL = %s, want 60s", cfg.StatsCacheTTL())
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parishbooks.yaml")
	contents := []byte("server:\n  port: \"9090\"\nledger:\n  currency: USD\n  stats_cache_ttl_seconds: 5\n")
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Ledger.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", cfg.Ledger.Currency)
	}
	if cfg.StatsCacheTTL() != 5*time.Second {
		t.Fatalf("stats cache TTL = %s, want 5s", cfg.StatsCacheTTL())
	}
	// untouched keys keep defaults
	if cfg.Database.MaxConns != 20 {
		t.Fatalf("max conns = %d, want 20", cfg.Database.MaxConns)
	}
}
