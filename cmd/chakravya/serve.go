// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/chakravya/internal/cache"
	"github.com/olegiv/chakravya/internal/config"
	"github.com/olegiv/chakravya/internal/handler"
	"github.com/olegiv/chakravya/internal/handler/api"
	"github.com/olegiv/chakravya/internal/metrics"
	"github.com/olegiv/chakravya/internal/middleware"
	"github.com/olegiv/chakravya/internal/payment"
	"github.com/olegiv/chakravya/internal/server"
	"github.com/olegiv/chakravya/internal/service"
	"github.com/olegiv/chakravya/internal/session"
	"github.com/olegiv/chakravya/internal/store"
	"github.com/olegiv/chakravya/internal/version"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("starting chakravya", "version", version.Get().String(), "env", cfg.Env)

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return err
	}

	// Reference data is always loaded; accounts only when asked.
	q := db.Queries()
	if err := store.Seed(ctx, q, seedOptions(cfg, cfg.DoSeed)); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	slog.Info("database ready")

	processor, err := payment.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing payments: %w", err)
	}
	if !processor.Enabled() {
		slog.Warn("payments disabled; payment endpoints will return 503")
	}

	cacheResult, err := cache.New(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:          cfg.CacheMaxSize,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = cacheResult.Cache.Close() }()
	slog.Info("cache initialized", "backend", cacheResult.Backend, "fallback", cacheResult.IsFallback)

	m := metrics.New()
	sessions, err := session.New(db.SQL, db.Driver, cfg.IsDevelopment())
	if err != nil {
		return fmt.Errorf("initializing sessions: %w", err)
	}
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	apiHandler := api.NewHandler(api.Deps{
		Queries:         q,
		Orders:          service.NewOrderService(q, processor, m, cfg.PaymentCurrency),
		Sessions:        sessions,
		LoginProtection: loginProtection,
		Cache:           cacheResult.Cache,
		CacheTTL:        time.Duration(cfg.CacheTTL) * time.Second,
		Observer:        m,
	})

	router := server.NewRouter(server.Deps{
		IsDevelopment:   cfg.IsDevelopment(),
		SessionSecret:   cfg.SessionSecret,
		TrustedOrigins:  cfg.TrustedOrigins,
		RequestTimeout:  cfg.RequestTimeout,
		Users:           q,
		Sessions:        sessions,
		LoginProtection: loginProtection,
		API:             apiHandler,
		Health:          handler.NewHealthHandler(q, q, sessions, processor.Enabled()),
		Metrics:         m,
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
