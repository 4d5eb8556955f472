package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/ridloal/meoris-storefront/internal/cart/domain"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/database"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	productdomain "github.com/ridloal/meoris-storefront/internal/product/domain"
)

var (
	ErrCartLineNotFound = apperr.NotFound("cart line not found")
	ErrInvalidReference = apperr.Validation("unknown user or product")
)

type CartRepository interface {
	GetByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	GetItem(ctx context.Context, userID, lineID string) (*domain.CartItem, error)
	// AddItem inserts the (user, product, size) line or adds quantity to the existing one.
	AddItem(ctx context.Context, userID, productID string, quantity int, size *string) (*domain.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error)
	// RemoveItem returns the deleted line, or nil when there was nothing to delete.
	RemoveItem(ctx context.Context, userID, lineID string) (*domain.CartLine, error)
	ClearCart(ctx context.Context, userID string) (int64, error)
}

const lineColumns = `id, user_id, produk_id, quantity, size, created_at, updated_at`

const itemSelect = `SELECT k.id, k.user_id, k.produk_id, k.quantity, k.size, k.created_at, k.updated_at,
       p.id, p.nama_produk, p.photo1, p.harga
  FROM keranjang k
  LEFT JOIN produk p ON p.id = k.produk_id`

type postgresCartRepository struct {
	db *sql.DB
}

func NewPostgresCartRepository(db *sql.DB) CartRepository {
	return &postgresCartRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLine(row rowScanner) (*domain.CartLine, error) {
	var l domain.CartLine
	var size string
	if err := row.Scan(&l.ID, &l.UserID, &l.ProdukID, &l.Quantity, &size, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Size = domain.SizeFromKey(size)
	return &l, nil
}

func scanItem(row rowScanner) (*domain.CartItem, error) {
	var (
		it    domain.CartItem
		size  string
		pID   sql.NullString
		pName sql.NullString
		photo sql.NullString
		price sql.NullInt64
	)
	err := row.Scan(&it.ID, &it.UserID, &it.ProdukID, &it.Quantity, &size, &it.CreatedAt, &it.UpdatedAt,
		&pID, &pName, &photo, &price)
	if err != nil {
		return nil, err
	}
	it.Size = domain.SizeFromKey(size)
	if pID.Valid {
		it.Produk = &productdomain.Summary{ID: pID.String, NamaProduk: pName.String, Harga: price.Int64}
		if photo.Valid {
			it.Produk.Photo1 = &photo.String
		}
	}
	return &it, nil
}

func (r *postgresCartRepository) GetByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, itemSelect+` WHERE k.user_id = $1 ORDER BY k.created_at, k.id`, userID)
	if err != nil {
		// a malformed id owns no rows
		if database.IsInvalidTextRepresentation(err) {
			return []domain.CartItem{}, nil
		}
		logger.Error("GetByUser: query failed", err, logger.Fields{"user_id": userID})
		return nil, err
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			logger.Error("GetByUser: scan failed", err, logger.Fields{"user_id": userID})
			return nil, err
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		logger.Error("GetByUser: rows iteration failed", err)
		return nil, err
	}
	return items, nil
}

func (r *postgresCartRepository) GetItem(ctx context.Context, userID, lineID string) (*domain.CartItem, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, itemSelect+` WHERE k.id = $1 AND k.user_id = $2`, lineID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidTextRepresentation(err) {
			return nil, ErrCartLineNotFound
		}
		logger.Error("GetItem: query failed", err, logger.Fields{"line_id": lineID})
		return nil, err
	}
	return it, nil
}

// AddItem is a single upsert so concurrent adds for one key can neither create a second row
// nor lose an increment.
func (r *postgresCartRepository) AddItem(ctx context.Context, userID, productID string, quantity int, size *string) (*domain.CartLine, error) {
	query := `INSERT INTO keranjang (id, user_id, produk_id, quantity, size, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              ON CONFLICT (user_id, produk_id, size)
              DO UPDATE SET quantity = keranjang.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
              RETURNING ` + lineColumns

	now := database.Now()
	line, err := scanLine(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), userID, productID, quantity, domain.SizeKey(size), now, now))
	if err != nil {
		if database.IsForeignKeyViolation(err) || database.IsInvalidTextRepresentation(err) {
			return nil, ErrInvalidReference
		}
		logger.Error("AddItem: upsert failed", err, logger.Fields{"user_id": userID, "produk_id": productID})
		return nil, err
	}
	return line, nil
}

func (r *postgresCartRepository) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error) {
	query := `UPDATE keranjang SET quantity = $1, updated_at = $2
              WHERE id = $3 AND user_id = $4
              RETURNING ` + lineColumns

	line, err := scanLine(r.db.QueryRowContext(ctx, query, quantity, database.Now(), lineID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidTextRepresentation(err) {
			return nil, ErrCartLineNotFound
		}
		logger.Error("UpdateQuantity: update failed", err, logger.Fields{"line_id": lineID})
		return nil, err
	}
	return line, nil
}

func (r *postgresCartRepository) RemoveItem(ctx context.Context, userID, lineID string) (*domain.CartLine, error) {
	line, err := scanLine(r.db.QueryRowContext(ctx,
		`DELETE FROM keranjang WHERE id = $1 AND user_id = $2 RETURNING `+lineColumns, lineID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidTextRepresentation(err) {
			return nil, nil
		}
		logger.Error("RemoveItem: delete failed", err, logger.Fields{"line_id": lineID})
		return nil, err
	}
	return line, nil
}

func (r *postgresCartRepository) ClearCart(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM keranjang WHERE user_id = $1`, userID)
	if err != nil {
		if database.IsInvalidTextRepresentation(err) {
			return 0, nil
		}
		logger.Error("ClearCart: delete failed", err, logger.Fields{"user_id": userID})
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
