package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ridloal/meoris-storefront/internal/checkout/domain"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/database"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	productdomain "github.com/ridloal/meoris-storefront/internal/product/domain"
)

var (
	ErrPreCheckoutNotFound = apperr.NotFound("pre-checkout not found")
	ErrStatusChanged       = apperr.Conflict("pre-checkout status changed concurrently")
)

type PreCheckoutRepository interface {
	// CreateWithItems stores the header and its items in one transaction.
	CreateWithItems(ctx context.Context, header *domain.PreCheckout, items []domain.PreCheckoutItem) error
	GetByID(ctx context.Context, id string) (*domain.PreCheckout, error)
	ListByUser(ctx context.Context, userID string, status domain.Status) ([]domain.PreCheckout, error)
	// UpdateStatus moves id from one status to another. It fails with ErrStatusChanged when the
	// stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*domain.PreCheckout, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExpireDraftsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	InvalidateEmptyDrafts(ctx context.Context) (int64, error)
}

const headerColumns = `id, user_id, subtotal, voucher_code, discount_amount, total_amount, status, created_at, updated_at`

type postgresPreCheckoutRepository struct {
	db *sql.DB
}

func NewPostgresPreCheckoutRepository(db *sql.DB) PreCheckoutRepository {
	return &postgresPreCheckoutRepository{db: db}
}

func (r *postgresPreCheckoutRepository) CreateWithItems(ctx context.Context, header *domain.PreCheckout, items []domain.PreCheckoutItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("CreateWithItems: failed to begin tx", err)
		return err
	}
	defer tx.Rollback()

	header.ID = uuid.NewString()
	header.CreatedAt = database.Now()
	header.UpdatedAt = header.CreatedAt
	if header.Status == "" {
		header.Status = domain.StatusDraft
	}

	headerQuery := `INSERT INTO pra_checkout (` + headerColumns + `)
                    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.ExecContext(ctx, headerQuery, header.ID, header.UserID, header.Subtotal, header.VoucherCode,
		header.DiscountAmount, header.TotalAmount, string(header.Status), header.CreatedAt, header.UpdatedAt)
	if err != nil {
		logger.Error("CreateWithItems: failed to insert header", err, logger.Fields{"user_id": header.UserID})
		return err
	}

	itemStmt, err := tx.PrepareContext(ctx, `INSERT INTO pra_checkout_items
        (id, pra_checkout_id, produk_id, quantity, size, harga_satuan, subtotal_item, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		logger.Error("CreateWithItems: failed to prepare item statement", err)
		return err
	}
	defer itemStmt.Close()

	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].PraCheckoutID = header.ID
		items[i].CreatedAt = header.CreatedAt
		_, err = itemStmt.ExecContext(ctx, items[i].ID, items[i].PraCheckoutID, items[i].ProdukID, items[i].Quantity,
			items[i].Size, items[i].HargaSatuan, items[i].SubtotalItem, items[i].CreatedAt)
		if err != nil {
			logger.Error("CreateWithItems: failed to insert item", err, logger.Fields{"produk_id": items[i].ProdukID})
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("CreateWithItems: commit failed", err)
		return err
	}
	header.Items = items
	return nil
}

func scanHeader(row interface{ Scan(...interface{}) error }) (*domain.PreCheckout, error) {
	var (
		h       domain.PreCheckout
		voucher sql.NullString
	)
	err := row.Scan(&h.ID, &h.UserID, &h.Subtotal, &voucher, &h.DiscountAmount, &h.TotalAmount, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if voucher.Valid {
		h.VoucherCode = &voucher.String
	}
	return &h, nil
}

func (r *postgresPreCheckoutRepository) GetByID(ctx context.Context, id string) (*domain.PreCheckout, error) {
	h, err := scanHeader(r.db.QueryRowContext(ctx, `SELECT `+headerColumns+` FROM pra_checkout WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidTextRepresentation(err) {
			return nil, ErrPreCheckoutNotFound
		}
		logger.Error("GetPreCheckoutByID: query failed", err, logger.Fields{"id": id})
		return nil, err
	}
	if h.Items, err = r.loadItems(ctx, h.ID); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *postgresPreCheckoutRepository) ListByUser(ctx context.Context, userID string, status domain.Status) ([]domain.PreCheckout, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+headerColumns+` FROM pra_checkout
        WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC, id`, userID, string(status))
	if err != nil {
		if database.IsInvalidTextRepresentation(err) {
			return []domain.PreCheckout{}, nil
		}
		logger.Error("ListPreCheckoutsByUser: query failed", err, logger.Fields{"user_id": userID})
		return nil, err
	}
	headers := []domain.PreCheckout{}
	for rows.Next() {
		h, err := scanHeader(rows)
		if err != nil {
			rows.Close()
			logger.Error("ListPreCheckoutsByUser: scan failed", err)
			return nil, err
		}
		headers = append(headers, *h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// items are loaded after the header cursor is closed
	for i := range headers {
		if headers[i].Items, err = r.loadItems(ctx, headers[i].ID); err != nil {
			return nil, err
		}
	}
	return headers, nil
}

func (r *postgresPreCheckoutRepository) loadItems(ctx context.Context, headerID string) ([]domain.PreCheckoutItem, error) {
	query := `SELECT i.id, i.pra_checkout_id, i.produk_id, i.quantity, i.size, i.harga_satuan, i.subtotal_item, i.created_at,
                     p.id, p.nama_produk, p.photo1, p.harga
              FROM pra_checkout_items i
              LEFT JOIN produk p ON p.id = i.produk_id
              WHERE i.pra_checkout_id = $1
              ORDER BY i.created_at, i.id`
	rows, err := r.db.QueryContext(ctx, query, headerID)
	if err != nil {
		logger.Error("loadItems: query failed", err, logger.Fields{"pra_checkout_id": headerID})
		return nil, err
	}
	defer rows.Close()

	items := []domain.PreCheckoutItem{}
	for rows.Next() {
		var (
			it    domain.PreCheckoutItem
			size  sql.NullString
			pID   sql.NullString
			pName sql.NullString
			photo sql.NullString
			price sql.NullInt64
		)
		if err := rows.Scan(&it.ID, &it.PraCheckoutID, &it.ProdukID, &it.Quantity, &size, &it.HargaSatuan, &it.SubtotalItem, &it.CreatedAt,
			&pID, &pName, &photo, &price); err != nil {
			logger.Error("loadItems: scan failed", err)
			return nil, err
		}
		if size.Valid {
			it.Size = &size.String
		}
		if pID.Valid {
			it.Produk = &productdomain.Summary{ID: pID.String, NamaProduk: pName.String, Harga: price.Int64}
			if photo.Valid {
				it.Produk.Photo1 = &photo.String
			}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresPreCheckoutRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*domain.PreCheckout, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE pra_checkout SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		string(to), database.Now(), id, string(from))
	if err != nil {
		if database.IsInvalidTextRepresentation(err) {
			return nil, ErrPreCheckoutNotFound
		}
		logger.Error("UpdatePreCheckoutStatus: update failed", err, logger.Fields{"id": id, "to": to})
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusChanged
	}
	return r.GetByID(ctx, id)
}

func (r *postgresPreCheckoutRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pra_checkout WHERE id = $1`, id)
	if err != nil {
		if database.IsInvalidTextRepresentation(err) {
			return false, nil
		}
		logger.Error("DeletePreCheckout: delete failed", err, logger.Fields{"id": id})
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *postgresPreCheckoutRepository) ExpireDraftsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE pra_checkout SET status = $1, updated_at = $2 WHERE status = $3 AND created_at < $4`,
		string(domain.StatusExpired), database.Now(), string(domain.StatusDraft), cutoff.UTC())
	if err != nil {
		logger.Error("ExpireDraftsOlderThan: update failed", err)
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postgresPreCheckoutRepository) InvalidateEmptyDrafts(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE pra_checkout SET status = $1, updated_at = $2
        WHERE status = $3
          AND NOT EXISTS (SELECT 1 FROM pra_checkout_items i WHERE i.pra_checkout_id = pra_checkout.id)`,
		string(domain.StatusInvalid), database.Now(), string(domain.StatusDraft))
	if err != nil {
		logger.Error("InvalidateEmptyDrafts: update failed", err)
		return 0, err
	}
	return res.RowsAffected()
}
