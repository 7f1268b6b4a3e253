// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides database access: connection setup, schema
// migrations, seeding and the gorm-backed Queries used by the services.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql migrations/mysql/*.sql
var migrations embed.FS

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = gorm.ErrRecordNotFound

// DBConfig holds database configuration options.
type DBConfig struct {
	// MaxOpenConns is the maximum number of open connections to the database.
	MaxOpenConns int
	// MaxIdleConns is the maximum number of connections in the idle connection pool.
	MaxIdleConns int
	// ConnMaxLifetime is the maximum amount of time a connection may be reused.
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum amount of time a connection may be idle.
	ConnMaxIdleTime time.Duration
	// Logger receives slow query and error logs from gorm. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultDBConfig returns sensible pool defaults.
func DefaultDBConfig() DBConfig {
	return DBConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

// DB bundles the raw connection pool (used by goose and the session store)
// with the gorm handle used for queries.
type DB struct {
	SQL    *sql.DB
	Gorm   *gorm.DB
	Driver string
}

// Open connects to the database for the given driver and returns both handles.
func Open(driver, dsn string, cfg DBConfig) (*DB, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gormCfg := &gorm.Config{
		Logger:  newGormLogger(logger),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	switch driver {
	case DriverSQLite:
		sqlDB, err := NewDBWithConfig(dsn, cfg)
		if err != nil {
			return nil, err
		}
		gdb, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, gormCfg)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("opening gorm: %w", err)
		}
		return &DB{SQL: sqlDB, Gorm: gdb, Driver: driver}, nil

	case DriverPostgres:
		gdb, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("getting connection pool: %w", err)
		}
		configurePool(sqlDB, cfg)
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		}
		return &DB{SQL: sqlDB, Gorm: gdb, Driver: driver}, nil

	case DriverMySQL:
		dsn, err := mysqlDSN(dsn)
		if err != nil {
			return nil, err
		}
		sqlDB, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		configurePool(sqlDB, cfg)
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		}
		gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("opening gorm: %w", err)
		}
		return &DB{SQL: sqlDB, Gorm: gdb, Driver: driver}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.SQL.Close()
}

// Queries returns a query set bound to this database.
func (db *DB) Queries() *Queries {
	return New(db.Gorm)
}

// NewDB opens a SQLite database connection and configures it for optimal performance.
func NewDB(path string) (*sql.DB, error) {
	return NewDBWithConfig(path, DefaultDBConfig())
}

// NewDBWithConfig opens a SQLite database connection with custom configuration.
func NewDBWithConfig(path string, cfg DBConfig) (*sql.DB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	configurePool(db, cfg)

	// Database-wide settings; per-connection ones are in the DSN
	pragmas := []string{
		"PRAGMA journal_mode=WAL",        // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL",      // Good balance of safety and speed
		"PRAGMA cache_size=-64000",       // 64MB cache
		"PRAGMA temp_store=MEMORY",       // Store temp tables in memory
		"PRAGMA wal_autocheckpoint=1000", // Auto checkpoint every 1000 pages
		"PRAGMA optimize",                // Run query planner optimizations
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// sqliteDSN appends the pragmas that must hold on every pooled connection.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// mysqlDSN forces the connection options the queries rely on: DATETIME
// columns scan into time.Time in UTC, and RowsAffected counts matched rows
// so an update that changes nothing is not mistaken for a missing row.
func mysqlDSN(dsn string) (string, error) {
	c, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parsing mysql DSN: %w", err)
	}
	c.ParseTime = true
	c.Loc = time.UTC
	c.ClientFoundRows = true
	return c.FormatDSN(), nil
}

func configurePool(db *sql.DB, cfg DBConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// migrationSource returns the goose dialect and embedded directory for a driver.
func migrationSource(driver string) (string, string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite3", "migrations/sqlite", nil
	case DriverPostgres:
		return "postgres", "migrations/postgres", nil
	case DriverMySQL:
		return "mysql", "migrations/mysql", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func prepareGoose(driver string) (string, error) {
	dialect, dir, err := migrationSource(driver)
	if err != nil {
		return "", err
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("setting dialect: %w", err)
	}
	return dir, nil
}

// Migrate runs all pending database migrations.
func Migrate(db *DB) error {
	dir, err := prepareGoose(db.Driver)
	if err != nil {
		return err
	}

	if err := goose.Up(db.SQL, dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *DB) error {
	dir, err := prepareGoose(db.Driver)
	if err != nil {
		return err
	}

	if err := goose.Down(db.SQL, dir); err != nil {
		return fmt.Errorf("rolling back migration: %w", err)
	}

	return nil
}

// MigrationVersion returns the current schema version and the latest embedded one.
func MigrationVersion(db *DB) (current, latest int64, err error) {
	dir, err := prepareGoose(db.Driver)
	if err != nil {
		return 0, 0, err
	}

	current, err = goose.GetDBVersion(db.SQL)
	if err != nil {
		return 0, 0, fmt.Errorf("reading schema version: %w", err)
	}

	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return 0, 0, fmt.Errorf("reading migrations: %w", err)
	}
	for _, e := range entries {
		v, err := goose.NumericComponent(e.Name())
		if err != nil {
			continue
		}
		if v > latest {
			latest = v
		}
	}

	return current, latest, nil
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
