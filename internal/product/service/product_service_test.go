package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/product/domain"
	"github.com/ridloal/meoris-storefront/internal/product/repository"
	"github.com/ridloal/meoris-storefront/internal/product/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_Search(t *testing.T) {
	ctx := context.TODO()
	catalog := []domain.Product{
		{ID: "p1", NamaProduk: "Kemeja Linen", Deskripsi: "adem"},
		{ID: "p2", NamaProduk: "Celana", Deskripsi: "bahan LINEN premium"},
		{ID: "p3", NamaProduk: "Topi", Deskripsi: "katun"},
		{ID: "p4", NamaProduk: "ＬＩＮＥＮ Scarf", Deskripsi: ""}, // full-width letters
	}

	t.Run("Matches name or description ignoring case and width", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)
		mockRepo.On("ListProducts", ctx, 100, 0).Return(catalog, nil).Once()

		got, err := svc.Search(ctx, "  linen ", 0)

		require.NoError(t, err)
		ids := make([]string, 0, len(got))
		for _, p := range got {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"p1", "p2", "p4"}, ids)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Blank query returns empty without touching the repository", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)

		got, err := svc.Search(ctx, "   ", 0)

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
		mockRepo.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Caps at limit", func(t *testing.T) {
		many := make([]domain.Product, 30)
		for i := range many {
			many[i] = domain.Product{ID: fmt.Sprintf("p%d", i), NamaProduk: "Kaos"}
		}
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)
		mockRepo.On("ListProducts", ctx, 100, 0).Return(many, nil).Once()

		got, err := svc.Search(ctx, "kaos", 0)

		require.NoError(t, err)
		assert.Len(t, got, DefaultSearchLimit)
		assert.Equal(t, "p0", got[0].ID)
	})

	t.Run("Repository failure", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)
		mockRepo.On("ListProducts", ctx, 100, 0).Return(nil, errors.New("boom")).Once()

		_, err := svc.Search(ctx, "kaos", 5)

		assert.ErrorIs(t, err, apperr.ErrBackend)
	})
}

func TestProductService_Defaults(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockProductRepository)
	svc := NewProductService(mockRepo)

	mockRepo.On("ListProducts", ctx, DefaultListLimit, 0).Return([]domain.Product{}, nil).Once()
	_, err := svc.ListProducts(ctx, 0, -5)
	require.NoError(t, err)

	mockRepo.On("ListProducts", ctx, MaxListLimit, 10).Return([]domain.Product{}, nil).Once()
	_, err = svc.ListProducts(ctx, 1000, 10)
	require.NoError(t, err)

	mockRepo.On("ListByCategory", ctx, "kemeja", DefaultCategoryLimit).Return([]domain.Product{}, nil).Once()
	_, err = svc.ListByCategory(ctx, "kemeja", 0)
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductDetails(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockProductRepository)
	svc := NewProductService(mockRepo)

	mockRepo.On("GetProductByID", ctx, "missing").Return(nil, repository.ErrProductNotFound).Once()
	_, err := svc.GetProductDetails(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.GetProductDetails(ctx, " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	mockRepo.AssertExpectations(t)
}
