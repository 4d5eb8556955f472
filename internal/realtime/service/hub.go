package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	"github.com/ridloal/meoris-storefront/internal/realtime/domain"
)

const DefaultBuffer = 64

// Publisher is what writers need from the hub.
type Publisher interface {
	Publish(ev domain.Event, columns map[string]string)
}

// Hub fans row changes out to filtered subscribers. Publish never blocks: a subscriber whose
// buffer is full misses the event.
type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	nextID  uint64
	buffer  int
	dropped atomic.Int64
}

type Subscription struct {
	id     uint64
	filter domain.Filter
	events chan domain.Event
	hub    *Hub
	once   sync.Once
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{subs: make(map[uint64]*Subscription), buffer: buffer}
}

func (h *Hub) Subscribe(f domain.Filter) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	s := &Subscription{
		id:     h.nextID,
		filter: f,
		events: make(chan domain.Event, h.buffer),
		hub:    h,
	}
	h.subs[s.id] = s
	logger.Debug("realtime: subscribed", logger.Fields{"sub": s.id, "filter": f.String()})
	return s
}

func (h *Hub) Publish(ev domain.Event, columns map[string]string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		if !s.filter.Matches(ev.Table, columns) {
			continue
		}
		select {
		case s.events <- ev:
		default:
			h.dropped.Add(1)
			logger.Warn("realtime: subscriber buffer full, event dropped", logger.Fields{"sub": s.id, "filter": s.filter.String()})
		}
	}
}

// Len is the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped counts events not delivered because a subscriber was too slow.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

func (s *Subscription) Events() <-chan domain.Event { return s.events }

func (s *Subscription) Filter() domain.Filter { return s.filter }

// Close unsubscribes and closes the event channel. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		close(s.events)
		s.hub.mu.Unlock()
	})
}

type originKey struct{}

// WithOrigin tags ctx with the id of the client that issued the request.
func WithOrigin(ctx context.Context, clientID string) context.Context {
	if clientID == "" {
		return ctx
	}
	return context.WithValue(ctx, originKey{}, clientID)
}

// OriginFrom returns the client id set by WithOrigin, or "".
func OriginFrom(ctx context.Context) string {
	v, _ := ctx.Value(originKey{}).(string)
	return v
}

// Emit builds an event and publishes it. Nil publishers and marshal failures are tolerated:
// the write already happened and the feed is best effort.
func Emit(ctx context.Context, p Publisher, table string, typ domain.EventType, record, old interface{}, columns map[string]string) {
	if p == nil {
		return
	}
	ev, err := domain.NewEvent(table, typ, record, old, OriginFrom(ctx))
	if err != nil {
		logger.Error("realtime: failed to build event", err, logger.Fields{"table": table})
		return
	}
	p.Publish(ev, columns)
}
