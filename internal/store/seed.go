// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/chakravya/internal/auth"
	"github.com/olegiv/chakravya/internal/model"
)

// Demo account credentials.
const (
	DemoUserEmail    = "demo@chakravya.com"
	DemoUserPassword = "demo123"
)

// SeedOptions controls which accounts Seed creates.
type SeedOptions struct {
	// Accounts enables creation of the demo user and the admin account.
	Accounts bool
	// AdminEmail is the admin account email.
	AdminEmail string
	// AdminPassword is the admin password; a random one is generated and logged when empty.
	AdminPassword string
}

// Seed loads the reference data (spiritual tasks and product tiers) into
// empty tables and, when enabled, creates the demo and admin accounts.
// It is safe to run repeatedly.
func Seed(ctx context.Context, q *Queries, opts SeedOptions) error {
	if err := seedSpiritualTasks(ctx, q); err != nil {
		return fmt.Errorf("seeding spiritual tasks: %w", err)
	}
	if err := seedProducts(ctx, q); err != nil {
		return fmt.Errorf("seeding products: %w", err)
	}

	if !opts.Accounts {
		return nil
	}

	if err := seedUser(ctx, q, DemoUserEmail, DemoUserPassword, model.RoleUser, "Demo", "User"); err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}

	if opts.AdminEmail != "" {
		password := opts.AdminPassword
		generated := password == ""
		if generated {
			var err error
			if password, err = randomPassword(); err != nil {
				return fmt.Errorf("generating admin password: %w", err)
			}
		}
		created, err := seedUserReport(ctx, q, opts.AdminEmail, password, model.RoleAdmin, "Admin", "")
		if err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
		if created && generated {
			slog.Info("generated admin password; change it after first login",
				"email", opts.AdminEmail,
				"password", password,
			)
		}
	}

	return nil
}

func seedSpiritualTasks(ctx context.Context, q *Queries) error {
	n, err := q.CountSpiritualTasks(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for i := range defaultSpiritualTasks {
		task := defaultSpiritualTasks[i]
		if err := q.CreateSpiritualTask(ctx, &task); err != nil {
			return err
		}
	}
	slog.Info("seeded spiritual tasks", "count", len(defaultSpiritualTasks))
	return nil
}

func seedProducts(ctx context.Context, q *Queries) error {
	n, err := q.CountProducts(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	products := defaultProducts()
	for i := range products {
		if err := q.CreateProduct(ctx, &products[i]); err != nil {
			return err
		}
	}
	slog.Info("seeded products", "count", len(products))
	return nil
}

func seedUser(ctx context.Context, q *Queries, email, password, role, first, last string) error {
	_, err := seedUserReport(ctx, q, email, password, role, first, last)
	return err
}

// seedUserReport creates the account unless the email is taken and reports whether it did.
func seedUserReport(ctx context.Context, q *Queries, email, password, role, first, last string) (bool, error) {
	_, err := q.GetUserByEmail(ctx, email)
	if err == nil {
		slog.Info("user already exists, skipping seed", "email", email)
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("checking for user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}

	u := &model.User{
		Email:        email,
		PasswordHash: &hash,
		Role:         role,
		FirstName:    optional(first),
		LastName:     optional(last),
	}
	if err := q.CreateUser(ctx, u); err != nil {
		return false, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("created user", "id", u.ID, "email", u.Email, "role", u.Role)
	return true, nil
}

func randomPassword() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
