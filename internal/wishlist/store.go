package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nutrihaven/storefront/internal/events"
	"github.com/nutrihaven/storefront/internal/kv"
)

// StorageKey is the key-value entry holding the serialized wishlist.
const StorageKey = "wishlist"

// ErrNotFound indicates the product is not on the wishlist.
var ErrNotFound = errors.New("wishlist item not found")

// Item is a saved product. DateAdded records when it was first saved; adding
// an already saved product keeps the original timestamp.
type Item struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Image         string   `json:"image"`
	Rating        float64  `json:"rating"`
	Category      string   `json:"category"`
	DateAdded     string   `json:"dateAdded"`
}

// Store owns the wishlist collection with the same write-through discipline
// as the cart: mutations persist and notify, reads serve memory.
type Store struct {
	KV     kv.Store
	Pub    kv.Publisher
	Events *events.Bus
	Logger zerolog.Logger
	Now    func() time.Time

	mu    sync.Mutex
	items []Item
}

// NewStore hydrates a wishlist store from the key-value port.
func NewStore(ctx context.Context, store kv.Store, pub kv.Publisher, bus *events.Bus, logger zerolog.Logger) (*Store, error) {
	if store == nil {
		return nil, errors.New("wishlist: kv store is required")
	}
	s := &Store{KV: store, Pub: pub, Events: bus, Logger: logger}
	if err := s.Rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Rehydrate reloads the collection from the key-value port.
func (s *Store) Rehydrate(ctx context.Context) error {
	var items []Item
	ok, err := kv.GetJSON(ctx, s.KV, StorageKey, &items)
	if err != nil {
		var decodeErr *kv.DecodeError
		if errors.As(err, &decodeErr) {
			s.Logger.Warn().Err(err).Str("key", StorageKey).Msg("discarding corrupt wishlist data")
			items = nil
		} else {
			return fmt.Errorf("wishlist: hydrate: %w", err)
		}
	}
	if !ok {
		items = nil
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Add saves a product. Adding a product that is already saved is a no-op, so
// repeated taps cannot create duplicates.
func (s *Store) Add(ctx context.Context, item Item) error {
	if item.ID == "" {
		return errors.New("wishlist: item id is required")
	}
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.mu.Unlock()
			return nil
		}
	}
	if item.DateAdded == "" {
		item.DateAdded = s.now().Format(time.RFC3339)
	}
	s.items = append(s.items, item)
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.emit(ctx, events.TopicWishlistAdded, map[string]any{"id": item.ID, "name": item.Name})
	return nil
}

// Remove deletes a saved product.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	name := s.items[idx].Name
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.emit(ctx, events.TopicWishlistRemoved, map[string]any{"id": id, "name": name})
	return nil
}

// Toggle adds the product when absent and removes it when present. It
// reports whether the product is saved after the call.
func (s *Store) Toggle(ctx context.Context, item Item) (bool, error) {
	if s.Has(item.ID) {
		if err := s.Remove(ctx, item.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Add(ctx, item); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes every saved product.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	return err
}

// Has reports whether the product is saved.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			return true
		}
	}
	return false
}

// List returns the saved products in insertion order.
func (s *Store) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns the number of saved products.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Store) persistLocked(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []Item{}
	}
	if err := kv.SetJSON(ctx, s.KV, StorageKey, items); err != nil {
		return fmt.Errorf("wishlist: persist: %w", err)
	}
	if s.Pub != nil {
		if err := s.Pub.PublishChange(ctx, StorageKey); err != nil {
			s.Logger.Warn().Err(err).Msg("publish wishlist change")
		}
	}
	return nil
}

func (s *Store) emit(ctx context.Context, topic string, payload any) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, payload); err != nil {
		s.Logger.Warn().Err(err).Str("topic", topic).Msg("emit wishlist event")
	}
}
