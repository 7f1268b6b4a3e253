// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/olegiv/chakravya/internal/config"
	"github.com/olegiv/chakravya/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			switch action {
			case "down":
				if err := store.MigrateDown(db); err != nil {
					return err
				}
				slog.Info("rolled back one migration")
			case "status":
				current, latest, err := store.MigrationVersion(db)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d, latest %d\n", current, latest)
				return err
			default:
				if err := store.Migrate(db); err != nil {
					return err
				}
				slog.Info("database migrations applied")
			}
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load reference data and create the demo and admin accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := store.Migrate(db); err != nil {
				return err
			}
			if err := store.Seed(cmd.Context(), db.Queries(), seedOptions(cfg, true)); err != nil {
				return fmt.Errorf("seeding database: %w", err)
			}
			slog.Info("database seeded")
			return nil
		},
	}
}

func seedOptions(cfg *config.Config, accounts bool) store.SeedOptions {
	return store.SeedOptions{
		Accounts:      accounts,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}
}
