package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ridloal/meoris-storefront/internal/cart/domain"
	"github.com/ridloal/meoris-storefront/internal/cart/repository"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/keylock"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	productdomain "github.com/ridloal/meoris-storefront/internal/product/domain"
	productrepo "github.com/ridloal/meoris-storefront/internal/product/repository"
	rtdomain "github.com/ridloal/meoris-storefront/internal/realtime/domain"
	realtime "github.com/ridloal/meoris-storefront/internal/realtime/service"
)

const Table = domain.Table

// ProductLookup is the catalog read the cart needs to validate adds.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id string) (*productdomain.Product, error)
}

type CartService interface {
	GetCart(ctx context.Context, userID string) ([]domain.CartItem, error)
	AddItem(ctx context.Context, userID string, req domain.AddItemRequest) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, lineID string) (bool, error)
	ClearCart(ctx context.Context, userID string) (int64, error)
}

type cartService struct {
	repo      repository.CartRepository
	products  ProductLookup
	publisher realtime.Publisher
	locks     *keylock.Locker
}

func NewCartService(repo repository.CartRepository, products ProductLookup, publisher realtime.Publisher) CartService {
	return &cartService{
		repo:      repo,
		products:  products,
		publisher: publisher,
		locks:     keylock.New(),
	}
}

func (s *cartService) GetCart(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	items, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Backend(err)
	}
	return items, nil
}

// AddItem adds quantity (default 1) of a product in an optional size. Repeated adds of the same
// (product, size) grow the existing line.
func (s *cartService) AddItem(ctx context.Context, userID string, req domain.AddItemRequest) (*domain.CartItem, error) {
	productID := strings.TrimSpace(req.ProdukID)
	if userID == "" || productID == "" {
		return nil, apperr.Validation("user id and product id are required")
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperr.Validationf("quantity must be >= 1, got %d", quantity)
	}
	size := req.Size
	if size != nil {
		trimmed := strings.TrimSpace(*size)
		size = domain.SizeFromKey(trimmed)
	}

	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, productrepo.ErrProductNotFound) {
			return nil, err
		}
		return nil, apperr.Backend(err)
	}
	if size != nil && !product.HasSize(*size) {
		return nil, apperr.Validationf("size %q is not available for %s", *size, product.NamaProduk)
	}

	unlock := s.locks.Lock(keylock.Key("add", userID, productID, domain.SizeKey(size)))
	defer unlock()

	line, err := s.repo.AddItem(ctx, userID, productID, quantity, size)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, err
		}
		return nil, apperr.Backend(err)
	}

	item := &domain.CartItem{CartLine: *line, Produk: summaryPtr(product.Summary())}
	evType := rtdomain.EventInsert
	if line.Quantity != quantity {
		evType = rtdomain.EventUpdate
	}
	s.emit(ctx, evType, item, nil)
	return item, nil
}

// UpdateQuantity sets the line quantity. Non-positive values are rejected; removal is explicit.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartItem, error) {
	if userID == "" || lineID == "" {
		return nil, apperr.Validation("user id and line id are required")
	}
	if quantity <= 0 {
		return nil, apperr.Validationf("quantity must be >= 1, got %d", quantity)
	}

	unlock := s.locks.Lock(keylock.Key("line", userID, lineID))
	defer unlock()

	if _, err := s.repo.UpdateQuantity(ctx, userID, lineID, quantity); err != nil {
		if errors.Is(err, repository.ErrCartLineNotFound) {
			return nil, err
		}
		return nil, apperr.Backend(err)
	}
	item, err := s.repo.GetItem(ctx, userID, lineID)
	if err != nil {
		if errors.Is(err, repository.ErrCartLineNotFound) {
			return nil, err
		}
		return nil, apperr.Backend(err)
	}
	s.emit(ctx, rtdomain.EventUpdate, item, nil)
	return item, nil
}

// RemoveItem deletes a line. Removing an absent line succeeds with removed=false.
func (s *cartService) RemoveItem(ctx context.Context, userID, lineID string) (bool, error) {
	if userID == "" || lineID == "" {
		return false, apperr.Validation("user id and line id are required")
	}

	unlock := s.locks.Lock(keylock.Key("line", userID, lineID))
	defer unlock()

	line, err := s.repo.RemoveItem(ctx, userID, lineID)
	if err != nil {
		return false, apperr.Backend(err)
	}
	if line == nil {
		logger.Debug("RemoveItem: line already absent", logger.Fields{"line_id": lineID})
		return false, nil
	}
	s.emit(ctx, rtdomain.EventDelete, nil, line)
	return true, nil
}

func (s *cartService) ClearCart(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, apperr.Validation("user id is required")
	}
	n, err := s.repo.ClearCart(ctx, userID)
	if err != nil {
		return 0, apperr.Backend(err)
	}
	if n > 0 {
		s.emit(ctx, rtdomain.EventDelete, nil, domain.CartLine{UserID: userID})
	}
	return n, nil
}

// emit publishes a keranjang change filtered by owner and line id.
func (s *cartService) emit(ctx context.Context, typ rtdomain.EventType, record interface{}, old interface{}) {
	var userID, lineID string
	switch v := record.(type) {
	case *domain.CartItem:
		userID, lineID = v.UserID, v.ID
	}
	switch v := old.(type) {
	case *domain.CartLine:
		userID, lineID = v.UserID, v.ID
	case domain.CartLine:
		userID, lineID = v.UserID, v.ID
	}
	realtime.Emit(ctx, s.publisher, Table, typ, record, old, map[string]string{"user_id": userID, "id": lineID})
}

func summaryPtr(s productdomain.Summary) *productdomain.Summary { return &s }
