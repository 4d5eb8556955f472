package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ridloal/meoris-storefront/internal/favorite/domain"
	"github.com/ridloal/meoris-storefront/internal/favorite/repository"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/keylock"
	rtdomain "github.com/ridloal/meoris-storefront/internal/realtime/domain"
	realtime "github.com/ridloal/meoris-storefront/internal/realtime/service"
)

const Table = domain.Table

type FavoriteService interface {
	List(ctx context.Context, userID string) ([]domain.FavoriteItem, error)
	IsFavorite(ctx context.Context, userID, productID string) (bool, error)
	Add(ctx context.Context, userID, productID string) (*domain.FavoriteLine, error)
	// Remove deletes a favorite by id. An empty userID skips the ownership check.
	Remove(ctx context.Context, userID, favoriteID string) (bool, error)
	Toggle(ctx context.Context, userID, productID string) (*domain.ToggleResult, error)
}

type favoriteService struct {
	repo      repository.FavoriteRepository
	publisher realtime.Publisher
	locks     *keylock.Locker
}

func NewFavoriteService(repo repository.FavoriteRepository, publisher realtime.Publisher) FavoriteService {
	return &favoriteService{repo: repo, publisher: publisher, locks: keylock.New()}
}

func (s *favoriteService) List(ctx context.Context, userID string) ([]domain.FavoriteItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("Missing userId")
	}
	items, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Backend(err)
	}
	return items, nil
}

func (s *favoriteService) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	ok, err := s.repo.IsFavorite(ctx, userID, productID)
	if err != nil {
		return false, apperr.Backend(err)
	}
	return ok, nil
}

// Add checks membership first and then inserts under a per (user, product) lock; the insert
// itself is also guarded by the unique key.
func (s *favoriteService) Add(ctx context.Context, userID, productID string) (*domain.FavoriteLine, error) {
	if err := requireIDs(userID, productID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(keylock.Key(userID, productID))
	defer unlock()

	return s.add(ctx, userID, productID)
}

func (s *favoriteService) add(ctx context.Context, userID, productID string) (*domain.FavoriteLine, error) {
	exists, err := s.IsFavorite(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrDuplicateFavorite
	}

	line, err := s.repo.Add(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateFavorite) || errors.Is(err, repository.ErrInvalidReference) {
			return nil, err
		}
		return nil, apperr.Backend(err)
	}
	s.emit(ctx, rtdomain.EventInsert, line, nil, line)
	return line, nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, favoriteID string) (bool, error) {
	if strings.TrimSpace(favoriteID) == "" {
		return false, apperr.Validation("Missing favoriteId")
	}
	line, err := s.repo.Remove(ctx, userID, favoriteID)
	if err != nil {
		return false, apperr.Backend(err)
	}
	if line == nil {
		return false, nil
	}
	s.emit(ctx, rtdomain.EventDelete, nil, line, line)
	return true, nil
}

// Toggle inverts membership of productID and reports the new state.
func (s *favoriteService) Toggle(ctx context.Context, userID, productID string) (*domain.ToggleResult, error) {
	if err := requireIDs(userID, productID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(keylock.Key(userID, productID))
	defer unlock()

	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing := domain.Find(items, productID); existing != nil {
		if _, err := s.Remove(ctx, userID, existing.ID); err != nil {
			return nil, err
		}
		return &domain.ToggleResult{Favorite: false}, nil
	}

	line, err := s.add(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	return &domain.ToggleResult{Favorite: true, Line: line}, nil
}

func (s *favoriteService) emit(ctx context.Context, typ rtdomain.EventType, record, old interface{}, line *domain.FavoriteLine) {
	realtime.Emit(ctx, s.publisher, Table, typ, record, old, map[string]string{
		"user_id":   line.UserID,
		"id":        line.ID,
		"produk_id": line.ProdukID,
	})
}

func requireIDs(userID, productID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.Validation("Missing userId")
	}
	if strings.TrimSpace(productID) == "" {
		return apperr.Validation("Missing produkId")
	}
	return nil
}
