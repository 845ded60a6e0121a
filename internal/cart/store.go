package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nutrihaven/storefront/internal/events"
	"github.com/nutrihaven/storefront/internal/kv"
	"github.com/nutrihaven/storefront/internal/pricing"
)

// StorageKey is the key-value entry holding the serialized cart.
const StorageKey = "cartItems"

// ErrNotFound indicates the requested line item is not in the cart.
var ErrNotFound = errors.New("cart item not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Item is one product entry in the cart with a quantity.
type Item struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Image         string   `json:"image"`
	Quantity      int      `json:"quantity"`
}

// EffectivePrice returns the discounted unit price when present.
func (it Item) EffectivePrice() float64 {
	if it.DiscountPrice != nil {
		return *it.DiscountPrice
	}
	return it.Price
}

// Store owns the cart collection. Every mutation writes through to the
// key-value port and emits a notification event. Reads serve the in-memory
// copy hydrated at construction.
type Store struct {
	KV     kv.Store
	Pub    kv.Publisher
	Events *events.Bus
	Logger zerolog.Logger

	mu    sync.Mutex
	items []Item
	promo string
}

// SetPromo attaches a promo code to the cart for the current session. The
// code is not persisted; a fresh context starts without one.
func (s *Store) SetPromo(code string) {
	s.mu.Lock()
	s.promo = code
	s.mu.Unlock()
}

// Promo returns the promo code attached to the cart, if any.
func (s *Store) Promo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promo
}

// NewStore hydrates a cart store from the key-value port. Corrupt or missing
// stored data yields an empty cart; corruption is logged, never fatal.
func NewStore(ctx context.Context, store kv.Store, pub kv.Publisher, bus *events.Bus, logger zerolog.Logger) (*Store, error) {
	if store == nil {
		return nil, errors.New("cart: kv store is required")
	}
	s := &Store{KV: store, Pub: pub, Events: bus, Logger: logger}
	if err := s.Rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Rehydrate reloads the collection from the key-value port, replacing the
// in-memory copy. Used at start and on external change notifications.
func (s *Store) Rehydrate(ctx context.Context) error {
	var items []Item
	ok, err := kv.GetJSON(ctx, s.KV, StorageKey, &items)
	if err != nil {
		if isCorrupt(err) {
			s.Logger.Warn().Err(err).Str("key", StorageKey).Msg("discarding corrupt cart data")
			items = nil
		} else {
			return fmt.Errorf("cart: hydrate: %w", err)
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

// Add appends a new line item or increments the quantity of an existing one.
// A non-positive quantity defaults to 1.
func (s *Store) Add(ctx context.Context, item Item) error {
	if item.ID == "" {
		return fmt.Errorf("item id is required: %w", ErrInvalidInput)
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, item)
	}
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.emit(ctx, events.TopicCartItemAdded, map[string]any{"id": item.ID, "name": item.Name})
	return nil
}

// SetQuantity sets a line item's quantity exactly. Values below 1 are a
// no-op: the stepper never drops below one, removal is explicit.
func (s *Store) SetQuantity(ctx context.Context, id string, n int) error {
	if n < 1 {
		return nil
	}
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = n
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return ErrNotFound
	}
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.emit(ctx, events.TopicCartQtyUpdated, map[string]any{"id": id, "quantity": n})
	return nil
}

// Remove deletes a line item entirely.
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
	s.emit(ctx, events.TopicCartItemRemoved, map[string]any{"id": id, "name": name})
	return nil
}

// Clear removes all line items.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	s.promo = ""
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.emit(ctx, events.TopicCartCleared, nil)
	return nil
}

// Has reports whether the item is in the cart.
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

// List returns the line items in insertion order.
func (s *Store) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns the sum of quantities across all line items.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for i := range s.items {
		total += s.items[i].Quantity
	}
	return total
}

// PricingItems converts the cart into pricing engine inputs.
func (s *Store) PricingItems() []pricing.Item {
	items := s.List()
	out := make([]pricing.Item, 0, len(items))
	for _, it := range items {
		out = append(out, pricing.Item{Qty: it.Quantity, UnitPrice: it.Price, DiscountPrice: it.DiscountPrice})
	}
	return out
}

func (s *Store) persistLocked(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []Item{}
	}
	if err := kv.SetJSON(ctx, s.KV, StorageKey, items); err != nil {
		return fmt.Errorf("cart: persist: %w", err)
	}
	if s.Pub != nil {
		if err := s.Pub.PublishChange(ctx, StorageKey); err != nil {
			s.Logger.Warn().Err(err).Msg("publish cart change")
		}
	}
	return nil
}

func (s *Store) emit(ctx context.Context, topic string, payload any) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, payload); err != nil {
		s.Logger.Warn().Err(err).Str("topic", topic).Msg("emit cart event")
	}
}

func isCorrupt(err error) bool {
	var decodeErr *kv.DecodeError
	return errors.As(err, &decodeErr)
}
