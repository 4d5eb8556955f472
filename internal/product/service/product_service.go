package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/product/domain"
	"github.com/ridloal/meoris-storefront/internal/product/repository"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultListLimit     = 50
	DefaultCategoryLimit = 20
	DefaultSearchLimit   = 20
	MaxListLimit         = 100

	// search scans only this many of the newest products
	searchWindow = 100
)

type ProductService interface {
	ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error)
	GetProductDetails(ctx context.Context, id string) (*domain.Product, error)
	ListByCategory(ctx context.Context, kategori string, limit int) ([]domain.Product, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Product, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	limit = clampLimit(limit, DefaultListLimit)
	if offset < 0 {
		offset = 0
	}
	products, err := s.repo.ListProducts(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Backend(err)
	}
	return products, nil
}

func (s *productService) GetProductDetails(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("product id is required")
	}
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, apperr.Backend(err)
	}
	return p, nil
}

func (s *productService) ListByCategory(ctx context.Context, kategori string, limit int) ([]domain.Product, error) {
	products, err := s.repo.ListByCategory(ctx, kategori, clampLimit(limit, DefaultCategoryLimit))
	if err != nil {
		return nil, apperr.Backend(err)
	}
	return products, nil
}

// Search matches query as a case-insensitive substring of the name or description among the
// newest products. Blank queries match nothing.
func (s *productService) Search(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	needle := normalize(strings.TrimSpace(query))
	if needle == "" {
		return []domain.Product{}, nil
	}
	limit = clampLimit(limit, DefaultSearchLimit)

	recent, err := s.repo.ListProducts(ctx, searchWindow, 0)
	if err != nil {
		return nil, apperr.Backend(err)
	}

	out := []domain.Product{}
	for _, p := range recent {
		if strings.Contains(normalize(p.NamaProduk), needle) || strings.Contains(normalize(p.Deskripsi), needle) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// normalize applies NFKC then Unicode case folding. Casers are stateful, so one is made per call.
func normalize(v string) string {
	return cases.Fold().String(norm.NFKC.String(v))
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
