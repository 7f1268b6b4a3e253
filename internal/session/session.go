// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager over the application database.
package session

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/chakravya/internal/store"
)

// Lifetime is how long a session stays valid after login.
const Lifetime = 24 * time.Hour

// cleanupInterval controls how often the store purges expired sessions.
const cleanupInterval = 5 * time.Minute

// New creates a session manager whose store matches the database driver
// ("sqlite", "postgres" or "mysql").
func New(db *sql.DB, driver string, isDev bool) (*scs.SessionManager, error) {
	sm := scs.New()

	switch driver {
	case store.DriverSQLite:
		sm.Store = sqlite3store.NewWithCleanupInterval(db, cleanupInterval)
	case store.DriverPostgres:
		sm.Store = postgresstore.NewWithCleanupInterval(db, cleanupInterval)
	case store.DriverMySQL:
		sm.Store = mysqlstore.NewWithCleanupInterval(db, cleanupInterval)
	default:
		return nil, fmt.Errorf("unsupported session store driver %q", driver)
	}

	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev

	// __Host- prefix pins the cookie to this host over HTTPS
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm, nil
}
