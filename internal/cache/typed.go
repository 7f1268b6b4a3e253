// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Observer is notified of hits and misses on a named TypedCache.
type Observer interface {
	CacheHit(name string)
	CacheMiss(name string)
}

// TypedCache stores JSON-encoded values of type T in a Cache.
type TypedCache[T any] struct {
	cache      Cache
	name       string
	defaultTTL time.Duration
	observer   Observer
}

// NewTypedCache creates a TypedCache. name labels hit/miss notifications;
// observer may be nil.
func NewTypedCache[T any](c Cache, name string, defaultTTL time.Duration, observer Observer) *TypedCache[T] {
	return &TypedCache[T]{
		cache:      c,
		name:       name,
		defaultTTL: defaultTTL,
		observer:   observer,
	}
}

// Get returns the value and true if found, or false on miss or decode failure.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		c.miss()
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		c.miss()
		return value, false
	}
	c.hit()
	return value, true
}

// Set stores a value with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, c.defaultTTL)
}

// Delete removes a key.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Cache write failures are logged and do not fail the call.
func (c *TypedCache[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value); err != nil {
		slog.WarnContext(ctx, "cache write failed", "cache", c.name, "key", key, "error", err)
	}
	return value, nil
}

func (c *TypedCache[T]) hit() {
	if c.observer != nil {
		c.observer.CacheHit(c.name)
	}
}

func (c *TypedCache[T]) miss() {
	if c.observer != nil {
		c.observer.CacheMiss(c.name)
	}
}
