/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"testing"
	"time"
)

func TestCountCache(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCountCache(time.Minute)
	cache.now = func() time.Time { return current }

	if _, ok := cache.Get(); ok {
		t.Fatal("expected empty cache to miss")
	}

	cache.Set(map[string]int64{"accounts": 3, "transactions": 42})

	values, ok := cache.Get()
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if values["accounts"] != 3 || values["transactions"] != 42 {
		t.Fatalf("unexpected cached values: %v", values)
	}

	// Just inside the TTL.
	current = current.Add(59 * time.Second)
	if _, ok := cache.Get(); !ok {
		t.Fatal("expected cache hit inside TTL")
	}

	// Past the TTL.
	current = current.Add(2 * time.Second)
	if _, ok := cache.Get(); ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestCountCacheInvalidate(t *testing.T) {
	t.Parallel()

	cache := NewCountCache(time.Hour)
	cache.Set(map[string]int64{"accounts": 1})

	cache.Invalidate()

	if _, ok := cache.Get(); ok {
		t.Fatal("expected cache miss after Invalidate")
	}
}
