package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/ridloal/meoris-storefront/internal/favorite/domain"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/database"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	productdomain "github.com/ridloal/meoris-storefront/internal/product/domain"
)

var (
	ErrDuplicateFavorite = apperr.Conflict("Product already in favorites")
	ErrFavoriteNotFound  = apperr.NotFound("favorite not found")
	ErrInvalidReference  = apperr.Validation("unknown user or product")
)

type FavoriteRepository interface {
	GetByUser(ctx context.Context, userID string) ([]domain.FavoriteItem, error)
	GetByID(ctx context.Context, id string) (*domain.FavoriteLine, error)
	// IsFavorite treats "no row" as a plain false.
	IsFavorite(ctx context.Context, userID, productID string) (bool, error)
	// Add fails with ErrDuplicateFavorite when the pair already exists.
	Add(ctx context.Context, userID, productID string) (*domain.FavoriteLine, error)
	// Remove deletes a favorite by id, restricted to userID when it is not empty.
	// It returns the deleted line or nil when nothing matched.
	Remove(ctx context.Context, userID, favoriteID string) (*domain.FavoriteLine, error)
}

const favoriteColumns = `id, user_id, produk_id, created_at`

type postgresFavoriteRepository struct {
	db *sql.DB
}

func NewPostgresFavoriteRepository(db *sql.DB) FavoriteRepository {
	return &postgresFavoriteRepository{db: db}
}

func scanFavorite(row interface{ Scan(...interface{}) error }) (*domain.FavoriteLine, error) {
	var f domain.FavoriteLine
	if err := row.Scan(&f.ID, &f.UserID, &f.ProdukID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *postgresFavoriteRepository) GetByUser(ctx context.Context, userID string) ([]domain.FavoriteItem, error) {
	query := `SELECT f.id, f.user_id, f.produk_id, f.created_at, p.id, p.nama_produk, p.photo1, p.harga
              FROM favorit f
              LEFT JOIN produk p ON p.id = f.produk_id
              WHERE f.user_id = $1
              ORDER BY f.created_at DESC, f.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		// a malformed id owns no rows
		if database.IsInvalidTextRepresentation(err) {
			return []domain.FavoriteItem{}, nil
		}
		logger.Error("GetFavoritesByUser: query failed", err, logger.Fields{"user_id": userID})
		return nil, err
	}
	defer rows.Close()

	items := []domain.FavoriteItem{}
	for rows.Next() {
		var (
			it    domain.FavoriteItem
			pID   sql.NullString
			pName sql.NullString
			photo sql.NullString
			price sql.NullInt64
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProdukID, &it.CreatedAt, &pID, &pName, &photo, &price); err != nil {
			logger.Error("GetFavoritesByUser: scan failed", err)
			return nil, err
		}
		if pID.Valid {
			it.Produk = &productdomain.Summary{ID: pID.String, NamaProduk: pName.String, Harga: price.Int64}
			if photo.Valid {
				it.Produk.Photo1 = &photo.String
			}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		logger.Error("GetFavoritesByUser: rows iteration failed", err)
		return nil, err
	}
	return items, nil
}

func (r *postgresFavoriteRepository) GetByID(ctx context.Context, id string) (*domain.FavoriteLine, error) {
	f, err := scanFavorite(r.db.QueryRowContext(ctx, `SELECT `+favoriteColumns+` FROM favorit WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidTextRepresentation(err) {
			return nil, ErrFavoriteNotFound
		}
		logger.Error("GetFavoriteByID: query failed", err, logger.Fields{"favorite_id": id})
		return nil, err
	}
	return f, nil
}

func (r *postgresFavoriteRepository) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM favorit WHERE user_id = $1 AND produk_id = $2 LIMIT 1`, userID, productID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidTextRepresentation(err) {
			return false, nil
		}
		logger.Error("IsFavorite: query failed", err, logger.Fields{"user_id": userID, "produk_id": productID})
		return false, err
	}
	return true, nil
}

// Add relies on the (user_id, produk_id) unique key: a duplicate inserts nothing and returns no row.
func (r *postgresFavoriteRepository) Add(ctx context.Context, userID, productID string) (*domain.FavoriteLine, error) {
	query := `INSERT INTO favorit (id, user_id, produk_id, created_at)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (user_id, produk_id) DO NOTHING
              RETURNING ` + favoriteColumns

	f, err := scanFavorite(r.db.QueryRowContext(ctx, query, uuid.NewString(), userID, productID, database.Now()))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), database.IsUniqueViolation(err):
			return nil, ErrDuplicateFavorite
		case database.IsForeignKeyViolation(err), database.IsInvalidTextRepresentation(err):
			return nil, ErrInvalidReference
		}
		logger.Error("AddFavorite: insert failed", err, logger.Fields{"user_id": userID, "produk_id": productID})
		return nil, err
	}
	return f, nil
}

func (r *postgresFavoriteRepository) Remove(ctx context.Context, userID, favoriteID string) (*domain.FavoriteLine, error) {
	var row *sql.Row
	if userID == "" {
		row = r.db.QueryRowContext(ctx, `DELETE FROM favorit WHERE id = $1 RETURNING `+favoriteColumns, favoriteID)
	} else {
		row = r.db.QueryRowContext(ctx, `DELETE FROM favorit WHERE id = $1 AND user_id = $2 RETURNING `+favoriteColumns, favoriteID, userID)
	}
	f, err := scanFavorite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidTextRepresentation(err) {
			return nil, nil
		}
		logger.Error("RemoveFavorite: delete failed", err, logger.Fields{"favorite_id": favoriteID})
		return nil, err
	}
	return f, nil
}
