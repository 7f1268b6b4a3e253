// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers: a migrated temporary
// database, fixtures and a scripted payment processor.
package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/chakravya/internal/auth"
	"github.com/olegiv/chakravya/internal/model"
	"github.com/olegiv/chakravya/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a test logger that only outputs errors.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary SQLite database with migrations applied.
// It is closed when the test finishes.
func TestDB(t *testing.T) *store.DB {
	t.Helper()

	cfg := store.DefaultDBConfig()
	cfg.Logger = TestLoggerSilent()

	db, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "chakravya-test.db"), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given email and password.
func CreateUser(t *testing.T, q *store.Queries, email, password, role string) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &model.User{Email: email, PasswordHash: &hash, Role: role}
	if err := q.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return *u
}

// CreateProduct inserts a product priced at price (e.g. "1299.00").
func CreateProduct(t *testing.T, q *store.Queries, title, price string, active bool) model.Product {
	t.Helper()

	p := &model.Product{
		Tier:     model.Tier1,
		Title:    title,
		Price:    model.MustMoney(price),
		Features: []model.Feature{{Name: "Blessed diya", Included: true}},
		Active:   active,
	}
	if err := q.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return *p
}

// CreateTask inserts a spiritual task.
func CreateTask(t *testing.T, q *store.Queries, title string) model.SpiritualTask {
	t.Helper()

	task := &model.SpiritualTask{Title: title, Category: model.CategoryChanting, DefaultTarget: 16, Unit: "rounds"}
	if err := q.CreateSpiritualTask(context.Background(), task); err != nil {
		t.Fatalf("CreateSpiritualTask: %v", err)
	}
	return *task
}

// ShippingAddress returns a valid shipping address.
func ShippingAddress() model.ShippingAddress {
	return model.ShippingAddress{
		Name:    "Radha Devi",
		Address: "12 Temple Road",
		City:    "Vrindavan",
		State:   "Uttar Pradesh",
		Pincode: "281121",
		Phone:   "9876543210",
	}
}
