package viewstate

import (
	"context"
	"errors"
	"sync"

	favdomain "github.com/ridloal/meoris-storefront/internal/favorite/domain"
	"github.com/ridloal/meoris-storefront/internal/platform/keylock"
)

// FavoritesBackend is the remote favorites list; *client.Client implements it.
type FavoritesBackend interface {
	Favorites(ctx context.Context) ([]favdomain.FavoriteItem, error)
	AddFavorite(ctx context.Context, productID string) (*favdomain.FavoriteLine, error)
	RemoveFavorite(ctx context.Context, favoriteID string) (bool, error)
}

type FavoritesState struct {
	backend FavoritesBackend
	locks   *keylock.Locker

	mu     sync.Mutex
	items  []favdomain.FavoriteItem
	err    error
	closed bool
}

func NewFavoritesState(backend FavoritesBackend) *FavoritesState {
	return &FavoritesState{backend: backend, locks: keylock.New()}
}

func (s *FavoritesState) Load(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}
	items, err := s.backend.Favorites(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err != nil {
		s.err = err
		return err
	}
	s.items = items
	s.err = nil
	return nil
}

// Toggle removes productID when the local list has it and adds it otherwise, then reloads the
// list. Toggles of one product run one at a time, so two quick toggles cancel out.
func (s *FavoritesState) Toggle(ctx context.Context, productID string) (bool, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	var favoriteID string
	if existing := favdomain.Find(s.items, productID); existing != nil {
		favoriteID = existing.ID
	}
	s.mu.Unlock()

	var opErr error
	if favoriteID != "" {
		_, opErr = s.backend.RemoveFavorite(ctx, favoriteID)
	} else {
		_, opErr = s.backend.AddFavorite(ctx, productID)
	}

	// the server list is authoritative whether or not the change went through
	loadErr := s.Load(ctx)
	if errors.Is(loadErr, ErrClosed) {
		return false, ErrClosed
	}
	if opErr != nil {
		s.mu.Lock()
		s.err = opErr
		s.mu.Unlock()
		return s.IsFavorite(productID), opErr
	}
	return s.IsFavorite(productID), loadErr
}

func (s *FavoritesState) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return favdomain.Find(s.items, productID) != nil
}

func (s *FavoritesState) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *FavoritesState) Items() []favdomain.FavoriteItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]favdomain.FavoriteItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *FavoritesState) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *FavoritesState) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *FavoritesState) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
