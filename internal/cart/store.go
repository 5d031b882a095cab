// Package cart owns the ordered line-item sequence and its session state.
// Every mutation persists the whole sequence and notifies subscribers, so a
// badge elsewhere in the app can track the count without polling.
package cart

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/Sly2277/BookNclean/internal/domain"
	"github.com/Sly2277/BookNclean/internal/pricing"
	"github.com/Sly2277/BookNclean/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const storageKey = "cart"

// Reconciler refreshes unit prices on loaded items. Defined here because the
// store is the consumer; internal/reconcile provides the implementation.
type Reconciler interface {
	Reconcile(ctx context.Context, items []domain.LineItem)
}

// CouponValidator checks a code against the current subtotal.
type CouponValidator interface {
	ValidateCoupon(ctx context.Context, code string, subtotal float64) (*domain.Coupon, error)
}

// Store is the single source of truth for cart state in a session. Items are
// addressed by position, not id, and identical items may appear as separate
// lines. The active coupon lives in memory only.
type Store struct {
	mu      sync.Mutex
	backend storage.Store
	log     logrus.FieldLogger
	items   []domain.LineItem
	coupon  *domain.Coupon

	lmu       sync.Mutex
	listeners map[string]func(count int)
}

func NewStore(backend storage.Store, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		backend:   backend,
		log:       log,
		listeners: make(map[string]func(int)),
	}
}

// Load reads the persisted sequence and makes it the current cart. Corrupt or
// absent storage yields an empty cart, never an error. Any active coupon is
// dropped. When a reconciler is given, pending items get their prices
// refreshed before the cart is re-persisted.
func (s *Store) Load(ctx context.Context, r Reconciler) []domain.LineItem {
	var items []domain.LineItem
	raw, err := s.backend.Load(ctx, storageKey)
	if err == nil {
		if errUnmarshal := json.Unmarshal(raw, &items); errUnmarshal != nil {
			s.log.WithError(errUnmarshal).Debug("corrupt cart payload, starting empty")
			items = nil
		}
	}

	if r != nil {
		r.Reconcile(ctx, items)
	}

	s.mu.Lock()
	s.items = items
	s.coupon = nil
	s.persistLocked(ctx)
	count := len(s.items)
	s.mu.Unlock()

	s.notify(count)
	return copyItems(items)
}

// Items returns a copy of the current sequence.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Append adds an item to the end of the cart. No uniqueness constraint. A
// non-positive quantity is normalized to 1 so nothing below 1 ever reaches
// storage through the store.
func (s *Store) Append(ctx context.Context, item domain.LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.mu.Lock()
	s.items = append(s.items, item)
	s.persistLocked(ctx)
	count := len(s.items)
	s.mu.Unlock()

	s.notify(count)
}

// SetQuantity replaces the quantity of the item at index, preserving every
// other field. A quantity of zero or less removes the line instead, so a
// non-positive quantity never reaches storage through this path.
func (s *Store) SetQuantity(ctx context.Context, index, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, index)
		return
	}
	s.mu.Lock()
	if index < 0 || index >= len(s.items) {
		s.mu.Unlock()
		return
	}
	s.items[index].Quantity = quantity
	s.persistLocked(ctx)
	count := len(s.items)
	s.mu.Unlock()

	s.notify(count)
}

// Remove deletes the entry at index; remaining entries keep their order.
func (s *Store) Remove(ctx context.Context, index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.items) {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.persistLocked(ctx)
	count := len(s.items)
	s.mu.Unlock()

	s.notify(count)
}

// Clear empties the cart and drops the active coupon.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.coupon = nil
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(0)
}

// ApplyCoupon validates the code with the current subtotal. Success installs
// the coupon; any failure clears whatever coupon was active and returns the
// validation error for the UI to surface. Blank codes are ignored.
func (s *Store) ApplyCoupon(ctx context.Context, validator CouponValidator, code string) (*domain.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	subtotal := s.Summary().Subtotal

	coupon, err := validator.ValidateCoupon(ctx, code, subtotal)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.coupon = nil
		return nil, err
	}
	s.coupon = coupon
	return coupon, nil
}

// Coupon returns the active coupon, or nil.
func (s *Store) Coupon() *domain.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coupon == nil {
		return nil
	}
	c := *s.coupon
	return &c
}

// Summary computes the order-summary figures for the current cart state.
func (s *Store) Summary() pricing.Summary {
	s.mu.Lock()
	items := copyItems(s.items)
	coupon := s.coupon
	s.mu.Unlock()
	return pricing.Summarize(items, coupon)
}

// Subscribe registers a change listener and returns its unsubscribe func.
// Listeners get the new item count after every mutation; they are free to
// recompute from storage instead of trusting the payload.
func (s *Store) Subscribe(fn func(count int)) func() {
	id := uuid.NewString()
	s.lmu.Lock()
	s.listeners[id] = fn
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *Store) notify(count int) {
	s.lmu.Lock()
	fns := make([]func(int), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()
	for _, fn := range fns {
		fn(count)
	}
}

// persistLocked rewrites the stored sequence wholesale. Persistence failures
// are logged and absorbed; the in-memory cart stays usable either way.
func (s *Store) persistLocked(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []domain.LineItem{} // stored shape is always a JSON array
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.log.WithError(err).Warn("marshal cart failed")
		return
	}
	if err := s.backend.Save(ctx, storageKey, data); err != nil {
		s.log.WithError(err).Warn("persist cart failed")
	}
}

func copyItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}
