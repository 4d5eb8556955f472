package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ridloal/meoris-storefront/internal/checkout/domain"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
)

type VoucherRepository interface {
	// GetValid returns the voucher with code that has not expired at now, or nil.
	GetValid(ctx context.Context, code string, now time.Time) (*domain.Voucher, error)
	// ListActive returns unexpired vouchers, largest discount first.
	ListActive(ctx context.Context, now time.Time) ([]domain.Voucher, error)
}

type postgresVoucherRepository struct {
	db *sql.DB
}

func NewPostgresVoucherRepository(db *sql.DB) VoucherRepository {
	return &postgresVoucherRepository{db: db}
}

func (r *postgresVoucherRepository) GetValid(ctx context.Context, code string, now time.Time) (*domain.Voucher, error) {
	var v domain.Voucher
	err := r.db.QueryRowContext(ctx, `SELECT voucher, total_potongan, expired FROM voucher WHERE voucher = $1 AND expired > $2`, code, now).
		Scan(&v.Code, &v.TotalPotongan, &v.Expired)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("GetValidVoucher: query failed", err, logger.Fields{"voucher": code})
		return nil, err
	}
	return &v, nil
}

func (r *postgresVoucherRepository) ListActive(ctx context.Context, now time.Time) ([]domain.Voucher, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT voucher, total_potongan, expired FROM voucher WHERE expired > $1 ORDER BY total_potongan DESC, voucher`, now)
	if err != nil {
		logger.Error("ListActiveVouchers: query failed", err)
		return nil, err
	}
	defer rows.Close()

	vouchers := []domain.Voucher{}
	for rows.Next() {
		var v domain.Voucher
		if err := rows.Scan(&v.Code, &v.TotalPotongan, &v.Expired); err != nil {
			logger.Error("ListActiveVouchers: scan failed", err)
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}
