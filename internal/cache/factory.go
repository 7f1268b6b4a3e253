// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"net/url"
	"time"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set, e.g. redis://localhost:6379/0.
	RedisURL string

	// Prefix is the Redis key prefix.
	Prefix string

	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for the memory backend (0 = unlimited).
	MaxSize int

	// FallbackToMemory uses the memory backend when Redis is unreachable.
	FallbackToMemory bool
}

// Result describes the cache that New created.
type Result struct {
	Cache      Cache
	Backend    string
	IsFallback bool
}

// New creates a Redis cache when cfg.RedisURL is set and a memory cache
// otherwise. If Redis cannot be reached and FallbackToMemory is set, a
// memory cache is returned and the failure is logged.
func New(cfg Config) (Result, error) {
	if cfg.RedisURL == "" {
		return Result{Cache: newMemory(cfg), Backend: BackendMemory}, nil
	}

	rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
	if err == nil {
		return Result{Cache: rc, Backend: BackendRedis}, nil
	}
	if !cfg.FallbackToMemory {
		return Result{}, err
	}

	slog.Warn("redis unavailable, using memory cache",
		"url", SanitizeRedisURL(cfg.RedisURL),
		"error", err,
	)
	return Result{Cache: newMemory(cfg), Backend: BackendMemory, IsFallback: true}, nil
}

func newMemory(cfg Config) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL: cfg.DefaultTTL,
		MaxSize:    cfg.MaxSize,
	})
}

// SanitizeRedisURL masks the password in a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
