package repository

import (
	"context"
	"errors"

	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/database"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	"github.com/ridloal/meoris-storefront/internal/product/domain"
	"gorm.io/gorm"
)

var ErrProductNotFound = apperr.NotFound("product not found")

type ProductRepository interface {
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error)
	ListByCategory(ctx context.Context, kategori string, limit int) ([]domain.Product, error)
}

type gormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

func (r *gormProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || database.IsInvalidTextRepresentation(err) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err, logger.Fields{"produk_id": id})
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products newest first.
func (r *gormProductRepository) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	products := []domain.Product{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id").
		Limit(limit).Offset(offset).
		Find(&products).Error
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, err
	}
	return products, nil
}

func (r *gormProductRepository) ListByCategory(ctx context.Context, kategori string, limit int) ([]domain.Product, error) {
	products := []domain.Product{}
	err := r.db.WithContext(ctx).
		Where("kategori = ?", kategori).
		Order("created_at DESC").Order("id").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error("ListByCategory: query failed", err, logger.Fields{"kategori": kategori})
		return nil, err
	}
	return products, nil
}
