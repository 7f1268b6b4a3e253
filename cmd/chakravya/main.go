// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command chakravya runs the Chakravya store API and its maintenance tasks.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/olegiv/chakravya/internal/config"
	"github.com/olegiv/chakravya/internal/logging"
	"github.com/olegiv/chakravya/internal/store"
	"github.com/olegiv/chakravya/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chakravya",
		Short:         "Chakravya devotional store API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
			return err
		},
	}
}

// bootstrap loads .env and the configuration and installs the default logger.
func bootstrap() (*config.Config, error) {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(logging.NewLogger(os.Stdout, cfg.LogFormat, cfg.SlogLevel()))
	return cfg, nil
}

// openDB connects to the configured database, creating the SQLite data
// directory when needed.
func openDB(cfg *config.Config) (*store.DB, error) {
	if cfg.DBDriver == config.DriverSQLite && !strings.HasPrefix(cfg.DBDSN, ":memory:") {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	dbCfg := store.DefaultDBConfig()
	dbCfg.MaxOpenConns = cfg.DBMaxOpenConns
	dbCfg.MaxIdleConns = cfg.DBMaxIdleConns
	dbCfg.Logger = slog.Default()

	slog.Info("initializing database", "driver", cfg.DBDriver)
	db, err := store.Open(cfg.DBDriver, cfg.DBDSN, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return db, nil
}

func closeDB(db *store.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing database connection", "error", err)
	}
}
