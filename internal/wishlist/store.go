// Package wishlist owns the saved-products set. Unlike the cart it has
// no quantities: a product is either saved or not, and saving an
// already-saved product removes it (toggle).
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/closette/storefront/internal/domain"
	"github.com/closette/storefront/internal/notify"
	"github.com/closette/storefront/internal/storage"
)

// StorageKey is the fixed key the wishlist persists under.
const StorageKey = "storefront:wishlist"

// ErrNotLoaded is returned by mutations issued before Load has read
// persisted state.
var ErrNotLoaded = errors.New("wishlist: store not loaded")

// Store holds the wishlist. Same lifecycle and notification rules as
// the cart store: one shared instance, Load before use, observers
// re-read after a signal.
type Store struct {
	mu      sync.RWMutex
	items   []domain.WishlistItem
	loaded  bool
	storage storage.Store
	bus     *notify.Bus
	log     *zap.Logger
}

// NewStore creates a wishlist store. It is unusable until Load has run.
func NewStore(st storage.Store, bus *notify.Bus, log *zap.Logger) *Store {
	return &Store{
		storage: st,
		bus:     bus,
		log:     log,
	}
}

// Load reads persisted state. Missing or corrupt storage yields an
// empty wishlist, never an error.
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
		return fmt.Errorf("load wishlist: %w", err)
	}

	var items []domain.WishlistItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.Warn("wishlist storage is corrupt, starting empty", zap.Error(err))
		items = nil
	}
	s.items = items
	s.loaded = true
	return nil
}

// Reload re-reads persisted state, discarding the in-memory copy.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Toggle saves a product, or removes it when already saved. The frozen
// snapshot is captured at save time. It returns whether the net effect
// was an addition, so callers can show "saved" versus "removed".
func (s *Store) Toggle(ctx context.Context, product domain.Product) (added bool, err error) {
	err = s.mutate(ctx, func() error {
		if idx := s.indexOf(product.ID); idx >= 0 {
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			added = false
			return nil
		}
		s.items = append(s.items, domain.WishlistItem{
			Product: product,
			AddedAt: time.Now(),
		})
		added = true
		return nil
	})
	return added, err
}

// Remove deletes a saved product unconditionally. Absent is a no-op.
func (s *Store) Remove(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func() error {
		idx := s.indexOf(productID)
		if idx < 0 {
			return errNoChange
		}
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		return nil
	})
}

// Clear empties the wishlist and persists the empty state. An already
// empty wishlist is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func() error {
		if len(s.items) == 0 {
			return errNoChange
		}
		s.items = nil
		return nil
	})
}

// Items returns a copy of the saved products in insertion order.
func (s *Store) Items() []domain.WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.WishlistItem, len(s.items))
	copy(out, s.items)
	return out
}

// Contains reports whether a product is saved.
func (s *Store) Contains(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(productID) >= 0
}

// Count returns the number of saved products.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

var errNoChange = errors.New("wishlist: no change")

func (s *Store) mutate(ctx context.Context, apply func() error) error {
	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.loaded {
			return ErrNotLoaded
		}
		prev := make([]domain.WishlistItem, len(s.items))
		copy(prev, s.items)
		if err := apply(); err != nil {
			return err
		}
		// A failed write rolls the in-memory change back, keeping
		// memory in step with storage.
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

	s.bus.Publish(notify.Event{Topic: notify.TopicWishlistChanged})
	return nil
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}
	if err := s.storage.Write(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("persist wishlist: %w", err)
	}
	return nil
}

func (s *Store) indexOf(productID int64) int {
	for i, item := range s.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
