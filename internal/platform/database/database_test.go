package database_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/ridloal/meoris-storefront/internal/platform/database"
	"github.com/ridloal/meoris-storefront/internal/platform/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_UnsupportedDriver(t *testing.T) {
	db, err := database.Connect("mysql", "whatever")
	assert.Nil(t, db)
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))
}

func TestErrorClassification(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.SeedUser(t, db, "dup@example.com")

	_, err := db.Exec(`INSERT INTO users (id, email, password_hash, nama, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		"another-id", "dup@example.com", "x", "", database.Now(), database.Now())
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsForeignKeyViolation(err))

	_, err = db.Exec(`INSERT INTO favorit (id, user_id, produk_id, created_at) VALUES ($1, $2, $3, $4)`,
		"fav-1", "missing-user", "missing-product", database.Now())
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))
	assert.False(t, database.IsUniqueViolation(err))
}

func TestOpenGorm(t *testing.T) {
	db := dbtest.Open(t)
	gdb, err := database.OpenGorm(db, database.DriverSQLite)
	require.NoError(t, err)

	var count int64
	require.NoError(t, gdb.Table("produk").Count(&count).Error)
	assert.Zero(t, count)

	_, err = database.OpenGorm(db, "mysql")
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}

func TestIsInvalidTextRepresentation(t *testing.T) {
	assert.True(t, database.IsInvalidTextRepresentation(&pgconn.PgError{Code: "22P02"}))
	assert.True(t, database.IsInvalidTextRepresentation(fmt.Errorf("query: %w", &pq.Error{Code: "22P02"})))
	assert.False(t, database.IsInvalidTextRepresentation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, database.IsInvalidTextRepresentation(errors.New("connection refused")))

	// SQLite has no typed columns to reject the value
	db := dbtest.Open(t)
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM favorit WHERE user_id = $1`, "not-a-uuid").Scan(&n))
	assert.Zero(t, n)
}
