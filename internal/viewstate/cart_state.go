package viewstate

import (
	"context"
	"encoding/json"
	"sync"

	cartdomain "github.com/ridloal/meoris-storefront/internal/cart/domain"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/keylock"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	rtdomain "github.com/ridloal/meoris-storefront/internal/realtime/domain"
)

// CartBackend is the remote cart; *client.Client implements it.
type CartBackend interface {
	Cart(ctx context.Context) ([]cartdomain.CartItem, error)
	AddToCart(ctx context.Context, productID string, quantity int, size *string) (*cartdomain.CartItem, error)
	UpdateCartQuantity(ctx context.Context, lineID string, quantity int) (*cartdomain.CartItem, error)
	RemoveFromCart(ctx context.Context, lineID string) (bool, error)
}

type CartState struct {
	backend  CartBackend
	clientID string
	locks    *keylock.Locker

	mu       sync.Mutex
	items    []cartdomain.CartItem
	err      error
	state    State
	inflight int
	removing map[string]bool
	closed   bool
}

// NewCartState returns an empty cart view. Events whose origin equals clientID are this
// client's own writes and are ignored by Apply.
func NewCartState(backend CartBackend, clientID string) *CartState {
	return &CartState{
		backend:  backend,
		clientID: clientID,
		locks:    keylock.New(),
		state:    StateClean,
		removing: make(map[string]bool),
	}
}

// Refresh replaces the local lines with the server's and clears the recorded error.
func (s *CartState) Refresh(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}
	items, err := s.backend.Cart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err != nil {
		s.err = err
		return err
	}
	fresh := make([]cartdomain.CartItem, 0, len(items))
	for _, it := range items {
		if !s.removing[it.ID] {
			fresh = append(fresh, it)
		}
	}
	s.items = fresh
	s.err = nil
	if s.inflight == 0 {
		s.state = StateClean
	}
	return nil
}

// Add sends the line to the server and merges the answer. Adds of the same product and size
// are serialized.
func (s *CartState) Add(ctx context.Context, productID string, quantity int, size *string) error {
	unlock := s.locks.Lock(keylock.Key("add", productID, cartdomain.SizeKey(size)))
	defer unlock()
	if s.isClosed() {
		return ErrClosed
	}

	item, err := s.backend.AddToCart(ctx, productID, quantity, size)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err != nil {
		s.err = err
		return err
	}
	s.upsert(*item)
	return nil
}

// UpdateQuantity shows the new quantity immediately and rolls it back if the server refuses.
func (s *CartState) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return apperr.Validationf("quantity must be >= 1, got %d", quantity)
	}
	unlock := s.locks.Lock(keylock.Key("line", lineID))
	defer unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	idx := s.indexOf(lineID)
	if idx < 0 {
		s.mu.Unlock()
		return apperr.NotFound("cart line not found")
	}
	previous := s.items[idx].Quantity
	s.items[idx].Quantity = quantity
	s.begin()
	s.mu.Unlock()

	item, err := s.backend.UpdateCartQuantity(ctx, lineID, quantity)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err != nil {
		if i := s.indexOf(lineID); i >= 0 {
			s.items[i].Quantity = previous
		}
		s.finish(err)
		return err
	}
	s.upsert(*item)
	s.finish(nil)
	return nil
}

// Remove splices the line out immediately. On failure the line is put back at its old position.
func (s *CartState) Remove(ctx context.Context, lineID string) error {
	unlock := s.locks.Lock(keylock.Key("line", lineID))
	defer unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	idx := s.indexOf(lineID)
	if idx < 0 {
		s.mu.Unlock()
		// not in view; the server call alone keeps removal idempotent
		_, err := s.backend.RemoveFromCart(ctx, lineID)
		if err != nil {
			s.mu.Lock()
			if !s.closed {
				s.err = err
			}
			s.mu.Unlock()
		}
		return err
	}
	removed := s.items[idx]
	next := make([]cartdomain.CartItem, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	s.items = append(next, s.items[idx+1:]...)
	s.removing[lineID] = true
	s.begin()
	s.mu.Unlock()

	_, err := s.backend.RemoveFromCart(ctx, lineID)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.removing, lineID)
	if s.closed {
		return ErrClosed
	}
	if err != nil {
		if s.indexOf(lineID) < 0 {
			at := idx
			if at > len(s.items) {
				at = len(s.items)
			}
			s.items = append(s.items[:at], append([]cartdomain.CartItem{removed}, s.items[at:]...)...)
		}
		s.finish(err)
		return err
	}
	s.finish(nil)
	return nil
}

// Apply merges a keranjang change made elsewhere. It reports whether the view changed.
func (s *CartState) Apply(ev rtdomain.Event) bool {
	if ev.Table != cartdomain.Table {
		return false
	}
	if s.clientID != "" && ev.Origin == s.clientID {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	switch ev.Type {
	case rtdomain.EventInsert, rtdomain.EventUpdate:
		var item cartdomain.CartItem
		if err := ev.Decode(&item); err != nil {
			logger.Warn("CartState: undecodable cart event", logger.Fields{"error": err.Error()})
			return false
		}
		if s.removing[item.ID] {
			return false
		}
		s.upsert(item)
	case rtdomain.EventDelete:
		var line cartdomain.CartLine
		if err := json.Unmarshal(ev.OldRecord, &line); err != nil {
			logger.Warn("CartState: undecodable cart delete", logger.Fields{"error": err.Error()})
			return false
		}
		if line.ID == "" {
			s.items = nil
			return true
		}
		idx := s.indexOf(line.ID)
		if idx < 0 {
			return false
		}
		s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	default:
		return false
	}
	return true
}

// Watch applies events from feed until it closes, ctx ends or the state is closed.
func (s *CartState) Watch(ctx context.Context, feed <-chan rtdomain.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-feed:
			if !ok {
				return nil
			}
			if s.isClosed() {
				return ErrClosed
			}
			s.Apply(ev)
		}
	}
}

// Items returns a copy of the current lines.
func (s *CartState) Items() []cartdomain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]cartdomain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Count is the total quantity across lines.
func (s *CartState) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cartdomain.Count(s.items)
}

func (s *CartState) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cartdomain.Subtotal(s.items)
}

// Err returns the last failure, or nil.
func (s *CartState) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *CartState) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close detaches the view. Results that arrive afterwards are discarded.
func (s *CartState) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *CartState) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *CartState) begin() {
	s.inflight++
	s.state = StatePending
}

func (s *CartState) finish(err error) {
	s.inflight--
	if err != nil {
		s.err = err
		s.state = StateReverted
		return
	}
	if s.inflight == 0 && s.state == StatePending {
		s.state = StateClean
	}
}

func (s *CartState) indexOf(lineID string) int {
	for i := range s.items {
		if s.items[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (s *CartState) upsert(item cartdomain.CartItem) {
	if i := s.indexOf(item.ID); i >= 0 {
		s.items[i] = item
		return
	}
	s.items = append(s.items, item)
}
