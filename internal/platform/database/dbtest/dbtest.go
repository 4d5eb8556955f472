// Package dbtest provides an in-memory SQLite database with the production schema
// and seed helpers for repository and service tests.
package dbtest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ridloal/meoris-storefront/internal/platform/database"
	"github.com/stretchr/testify/require"
)

// Open returns a migrated in-memory database closed at test cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := database.Connect(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))
	t.Cleanup(func() { db.Close() })
	return db
}

func SeedUser(t testing.TB, db *sql.DB, email string) string {
	t.Helper()
	id := uuid.NewString()
	now := database.Now()
	_, err := db.Exec(`INSERT INTO users (id, email, password_hash, nama, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, email, "x", "Test User", now, now)
	require.NoError(t, err)
	return id
}

// ProductSeed describes a catalog row. Zero CreatedAt means now.
type ProductSeed struct {
	Name        string
	Price       int64
	Category    string
	Description string
	Photo1      string
	Sizes       []string
	CreatedAt   time.Time
}

func SeedProduct(t testing.TB, db *sql.DB, p ProductSeed) string {
	t.Helper()
	id := uuid.NewString()
	created := p.CreatedAt
	if created.IsZero() {
		created = database.Now()
	}
	sizes := make([]interface{}, 5)
	for i := range sizes {
		if i < len(p.Sizes) {
			sizes[i] = p.Sizes[i]
		}
	}
	var photo interface{}
	if p.Photo1 != "" {
		photo = p.Photo1
	}
	_, err := db.Exec(`INSERT INTO produk (id, nama_produk, harga, stok, kategori, deskripsi, photo1, size1, size2, size3, size4, size5, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		id, p.Name, p.Price, 10, p.Category, p.Description, photo,
		sizes[0], sizes[1], sizes[2], sizes[3], sizes[4], created.UTC(), created.UTC())
	require.NoError(t, err)
	return id
}

func SetProductPrice(t testing.TB, db *sql.DB, productID string, price int64) {
	t.Helper()
	_, err := db.Exec(`UPDATE produk SET harga = $1, updated_at = $2 WHERE id = $3`, price, database.Now(), productID)
	require.NoError(t, err)
}

func SeedVoucher(t testing.TB, db *sql.DB, code string, discount int64, expired time.Time) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO voucher (voucher, total_potongan, expired) VALUES ($1, $2, $3)`,
		code, discount, expired.UTC())
	require.NoError(t, err)
}

// OpenFailing returns a database whose every statement fails with err. It lets tests feed
// driver errors of servers they do not run into the repositories.
func OpenFailing(t testing.TB, err error) *sql.DB {
	t.Helper()
	db := sql.OpenDB(failingConnector{err: err})
	t.Cleanup(func() { db.Close() })
	return db
}

type failingConnector struct{ err error }

func (c failingConnector) Connect(context.Context) (driver.Conn, error) {
	return failingConn{err: c.err}, nil
}

func (c failingConnector) Driver() driver.Driver { return failingDriver{err: c.err} }

type failingDriver struct{ err error }

func (d failingDriver) Open(string) (driver.Conn, error) { return failingConn{err: d.err}, nil }

type failingConn struct{ err error }

func (c failingConn) Prepare(string) (driver.Stmt, error) { return nil, c.err }
func (c failingConn) Close() error                        { return nil }
func (c failingConn) Begin() (driver.Tx, error)           { return nil, c.err }
