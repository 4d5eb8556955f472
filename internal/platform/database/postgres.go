package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
)

const (
	DriverPgx       = "pgx"
	DriverPq        = "postgres"
	DriverSQLite    = "sqlite3"
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
)

//go:embed schema_postgres.sql
var postgresSchema string

//go:embed schema_sqlite.sql
var sqliteSchema string

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Connect opens a pool for driver ("pgx", "postgres" or "sqlite3") and verifies it with a ping.
func Connect(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPgx, DriverPq, DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == DriverSQLite {
		// An in-memory SQLite database lives and dies with its connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLifetime)
	}

	if err = db.Ping(); err != nil {
		db.Close() // Close connection if ping fails
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	logger.Info("Successfully connected to the database (driver=%s)", driver)
	return db, nil
}

// Migrate applies the embedded schema for driver. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema := postgresSchema
	if driver == DriverSQLite {
		schema = sqliteSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("Migrate: failed to apply schema", err, logger.Fields{"driver": driver})
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Now is the timestamp written by repositories: UTC, microsecond precision (Postgres resolution).
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// IsUniqueViolation reports whether err is a unique/primary key violation from any supported driver.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign key violation from any supported driver.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// IsInvalidTextRepresentation reports whether Postgres rejected a parameter that does not parse
// as the column type, such as a malformed UUID. SQLite compares the text and finds no row instead.
func IsInvalidTextRepresentation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "22P02"
	}
	return false
}
