// Package cart owns the shopping cart: an ordered collection of line
// items keyed by (product, selected size), persisted to durable storage
// after every mutation. All mutation flows through the Store; UI
// surfaces hold no cart state of their own.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/closette/storefront/internal/domain"
	"github.com/closette/storefront/internal/notify"
	"github.com/closette/storefront/internal/pricing"
	"github.com/closette/storefront/internal/storage"
)

// StorageKey is the fixed key the cart persists under.
const StorageKey = "storefront:cart"

var (
	// ErrNotLoaded is returned by mutations issued before Load has read
	// persisted state, so nothing operates on a phantom empty cart that a
	// later load would overwrite.
	ErrNotLoaded = errors.New("cart: store not loaded")

	// ErrInsufficientStock is returned when a mutation would push a line
	// item's quantity above the stock recorded in its size variant. The
	// cart is left untouched; the caller decides how to tell the shopper.
	ErrInsufficientStock = errors.New("cart: insufficient stock")
)

// Store holds the cart. One instance per collection is shared by all UI
// surfaces; observers learn about mutations through the bus and re-read
// aggregates here. Change notifications go out after the persisted
// write commits and after the store's lock is released, so observers
// may re-read aggregates from inside a handler.
type Store struct {
	mu      sync.RWMutex
	items   []domain.CartItem
	loaded  bool
	storage storage.Store
	bus     *notify.Bus
	log     *zap.Logger
}

// NewStore creates a cart store. It is unusable until Load has run.
func NewStore(st storage.Store, bus *notify.Bus, log *zap.Logger) *Store {
	return &Store{
		storage: st,
		bus:     bus,
		log:     log,
	}
}

// Load reads persisted state. A missing key or an unparseable payload
// yields an empty cart, never an error: a wiped storage medium is a
// valid starting state.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.storage.Read(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.items = nil
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.Warn("cart storage is corrupt, starting empty", zap.Error(err))
		items = nil
	}
	s.items = items
	s.loaded = true
	return nil
}

// Reload re-reads persisted state, discarding the in-memory copy. It is
// the required reaction to a remote change notification: trust storage,
// not what this process last saw.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Add puts quantity units of a product in the selected size into the
// cart, freezing the product snapshot as it is now. A line item for the
// same (product, size) pair is incremented, never duplicated. Quantities
// below one are treated as one. Exceeding the size variant's stock is
// rejected with ErrInsufficientStock.
func (s *Store) Add(ctx context.Context, product domain.Product, size domain.Size, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	return s.mutate(ctx, func() error {
		key := domain.LineKey{ProductID: product.ID, Size: size}
		idx := s.indexOf(key)

		current := 0
		if idx >= 0 {
			current = s.items[idx].Quantity
		}

		probe := domain.CartItem{Product: product, Size: size}
		if exceedsStock(probe, current+quantity) {
			return ErrInsufficientStock
		}

		if idx >= 0 {
			s.items[idx].Quantity += quantity
			return nil
		}
		s.items = append(s.items, domain.CartItem{
			Product:  product,
			Size:     size,
			Quantity: quantity,
			AddedAt:  time.Now(),
		})
		return nil
	})
}

// UpdateQuantity sets a line item's quantity directly. Zero or negative
// removes the line item. An unknown (product, size) pair is a no-op.
// Exceeding the size variant's stock is rejected with
// ErrInsufficientStock and leaves the cart unchanged.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, size domain.Size, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID, size)
	}

	return s.mutate(ctx, func() error {
		idx := s.indexOf(domain.LineKey{ProductID: productID, Size: size})
		if idx < 0 {
			return errNoChange
		}
		if exceedsStock(s.items[idx], quantity) {
			return ErrInsufficientStock
		}
		s.items[idx].Quantity = quantity
		return nil
	})
}

// Remove deletes the matching line item. An unknown pair is a no-op.
func (s *Store) Remove(ctx context.Context, productID int64, size domain.Size) error {
	return s.mutate(ctx, func() error {
		idx := s.indexOf(domain.LineKey{ProductID: productID, Size: size})
		if idx < 0 {
			return errNoChange
		}
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		return nil
	})
}

// Clear empties the cart and persists the empty state. An already
// empty cart is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func() error {
		if len(s.items) == 0 {
			return errNoChange
		}
		s.items = nil
		return nil
	})
}

// Items returns a copy of the line items in session insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total sums effective price times quantity over all line items.
// An empty cart totals zero.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, item := range s.items {
		line := pricing.EffectivePrice(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}

// Count sums quantities across all line items: units, not rows.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Contains reports whether a line item exists for the pair.
func (s *Store) Contains(productID int64, size domain.Size) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(domain.LineKey{ProductID: productID, Size: size}) >= 0
}

// errNoChange signals a no-op mutation: nothing to persist, nothing to
// announce, nil to the caller.
var errNoChange = errors.New("cart: no change")

// mutate runs apply under the write lock, persists the result, and
// broadcasts the change once the lock is released. Rejected or no-op
// mutations leave storage untouched and publish nothing. A failed
// write rolls the in-memory change back, so memory never drifts ahead
// of what storage holds.
func (s *Store) mutate(ctx context.Context, apply func() error) error {
	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.loaded {
			return ErrNotLoaded
		}
		prev := make([]domain.CartItem, len(s.items))
		copy(prev, s.items)
		if err := apply(); err != nil {
			return err
		}
		if err := s.persistLocked(ctx); err != nil {
			s.items = prev
			return err
		}
		return nil
	}()

	if errors.Is(err, errNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	s.bus.Publish(notify.Event{Topic: notify.TopicCartChanged})
	return nil
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.storage.Write(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (s *Store) indexOf(key domain.LineKey) int {
	for i, item := range s.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// exceedsStock applies the stock cap for a prospective quantity. The cap
// comes from the matching size variant, or the sum over variants when no
// size matches. Products carrying no variants at all have untracked
// stock and no cap.
func exceedsStock(item domain.CartItem, quantity int) bool {
	if len(item.Product.Variants) == 0 {
		return false
	}
	return quantity > pricing.EffectiveStock(item)
}
