package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ridloal/meoris-storefront/internal/favorite/domain"
	"github.com/ridloal/meoris-storefront/internal/favorite/repository"
	"github.com/ridloal/meoris-storefront/internal/favorite/repository/mocks"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/database/dbtest"
	rtdomain "github.com/ridloal/meoris-storefront/internal/realtime/domain"
	realtime "github.com/ridloal/meoris-storefront/internal/realtime/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFavoriteService_Add(t *testing.T) {
	ctx := context.TODO()

	t.Run("Existing favorite is a conflict without an insert", func(t *testing.T) {
		mockRepo := new(mocks.MockFavoriteRepository)
		svc := NewFavoriteService(mockRepo, nil)
		mockRepo.On("IsFavorite", ctx, "u1", "p1").Return(true, nil).Once()

		line, err := svc.Add(ctx, "u1", "p1")

		assert.Nil(t, line)
		assert.ErrorIs(t, err, repository.ErrDuplicateFavorite)
		assert.ErrorIs(t, err, apperr.ErrConflict)
		mockRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Lookup failure is a backend error, not a negative", func(t *testing.T) {
		mockRepo := new(mocks.MockFavoriteRepository)
		svc := NewFavoriteService(mockRepo, nil)
		mockRepo.On("IsFavorite", ctx, "u1", "p1").Return(false, errors.New("timeout")).Once()

		_, err := svc.Add(ctx, "u1", "p1")

		assert.ErrorIs(t, err, apperr.ErrBackend)
		mockRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Insert publishes to the owner", func(t *testing.T) {
		mockRepo := new(mocks.MockFavoriteRepository)
		hub := realtime.NewHub(2)
		sub := hub.Subscribe(rtdomain.Filter{Table: Table, Column: "user_id", Value: "u1"})
		defer sub.Close()
		svc := NewFavoriteService(mockRepo, hub)

		mockRepo.On("IsFavorite", ctx, "u1", "p1").Return(false, nil).Once()
		mockRepo.On("Add", ctx, "u1", "p1").Return(&domain.FavoriteLine{ID: "f1", UserID: "u1", ProdukID: "p1"}, nil).Once()

		line, err := svc.Add(ctx, "u1", "p1")

		require.NoError(t, err)
		assert.Equal(t, "f1", line.ID)
		assert.Equal(t, rtdomain.EventInsert, (<-sub.Events()).Type)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Missing ids", func(t *testing.T) {
		svc := NewFavoriteService(new(mocks.MockFavoriteRepository), nil)
		_, err := svc.Add(ctx, "", "p1")
		assert.EqualError(t, err, "Missing userId")
		_, err = svc.Add(ctx, "u1", " ")
		assert.EqualError(t, err, "Missing produkId")
	})
}

func TestFavoriteService_RemoveIsIdempotent(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockFavoriteRepository)
	svc := NewFavoriteService(mockRepo, nil)

	mockRepo.On("Remove", ctx, "u1", "f1").Return(&domain.FavoriteLine{ID: "f1", UserID: "u1"}, nil).Once()
	mockRepo.On("Remove", ctx, "u1", "f1").Return(nil, nil).Once()

	removed, err := svc.Remove(ctx, "u1", "f1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Remove(ctx, "u1", "f1")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = svc.Remove(ctx, "u1", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	mockRepo.AssertExpectations(t)
}

// The following run against a real database.

func newDBService(t *testing.T) (FavoriteService, string, string) {
	db := dbtest.Open(t)
	u1 := dbtest.SeedUser(t, db, "u1@example.com")
	p1 := dbtest.SeedProduct(t, db, dbtest.ProductSeed{Name: "Kemeja", Price: 100000})
	return NewFavoriteService(repository.NewPostgresFavoriteRepository(db), realtime.NewHub(16)), u1, p1
}

func TestFavoriteService_ScenarioC(t *testing.T) {
	svc, u1, p1 := newDBService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, u1, p1)
	require.NoError(t, err)

	_, err = svc.Add(ctx, u1, p1)
	assert.ErrorIs(t, err, repository.ErrDuplicateFavorite)

	items, err := svc.List(ctx, u1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFavoriteService_ConcurrentAddsKeepOneRow(t *testing.T) {
	svc, u1, p1 := newDBService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, u1, p1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrDuplicateFavorite)
	}
	assert.Equal(t, 1, ok)

	items, err := svc.List(ctx, u1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFavoriteService_ToggleParity(t *testing.T) {
	svc, u1, p1 := newDBService(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		res, err := svc.Toggle(ctx, u1, p1)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, res.Favorite, "after %d toggles", i)

		is, err := svc.IsFavorite(ctx, u1, p1)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, is)
	}

	_, err := svc.Toggle(ctx, u1, "missing-product")
	assert.ErrorIs(t, err, repository.ErrInvalidReference)
}
