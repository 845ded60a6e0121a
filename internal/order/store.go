package order

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nutrihaven/storefront/internal/cart"
	"github.com/nutrihaven/storefront/internal/events"
	"github.com/nutrihaven/storefront/internal/kv"
	"github.com/nutrihaven/storefront/internal/pricing"
)

// StorageKey is the key-value entry holding the serialized order history.
const StorageKey = "orders"

// ErrNotFound indicates no order exists with the requested id.
var ErrNotFound = errors.New("order not found")

// StatusProcessing is the status every new order starts in.
const StatusProcessing = "processing"

// Customer captures the shipping details the order was placed with.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Order is a placed order as it appears in the account history.
type Order struct {
	ID            string         `json:"id"`
	Date          string         `json:"date"`
	Status        string         `json:"status"`
	Items         []cart.Item    `json:"items"`
	Pricing       pricing.Totals `json:"pricing"`
	Total         float64        `json:"total"`
	Customer      Customer       `json:"customer"`
	PaymentMethod string         `json:"paymentMethod"`
}

// NewID produces a display order number: "ORD" plus six digits.
func NewID() string {
	return fmt.Sprintf("ORD%06d", 100000+rand.IntN(900000))
}

// Store owns the order history. Orders are prepended so the history reads
// newest first.
type Store struct {
	KV     kv.Store
	Pub    kv.Publisher
	Events *events.Bus
	Logger zerolog.Logger

	mu     sync.Mutex
	orders []Order
}

// NewStore hydrates the order history from the key-value port.
func NewStore(ctx context.Context, store kv.Store, pub kv.Publisher, bus *events.Bus, logger zerolog.Logger) (*Store, error) {
	if store == nil {
		return nil, errors.New("order: kv store is required")
	}
	s := &Store{KV: store, Pub: pub, Events: bus, Logger: logger}
	if err := s.Rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Rehydrate reloads the history from the key-value port.
func (s *Store) Rehydrate(ctx context.Context) error {
	var orders []Order
	ok, err := kv.GetJSON(ctx, s.KV, StorageKey, &orders)
	if err != nil {
		var decodeErr *kv.DecodeError
		if errors.As(err, &decodeErr) {
			s.Logger.Warn().Err(err).Str("key", StorageKey).Msg("discarding corrupt order history")
			orders = nil
		} else {
			return fmt.Errorf("order: hydrate: %w", err)
		}
	}
	if !ok {
		orders = nil
	}
	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return nil
}

// Append records a placed order at the head of the history.
func (s *Store) Append(ctx context.Context, o Order) error {
	if o.ID == "" {
		return errors.New("order: id is required")
	}
	s.mu.Lock()
	s.orders = append([]Order{o}, s.orders...)
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if s.Events != nil {
		payload := map[string]any{"id": o.ID, "total": o.Total, "email": o.Customer.Email}
		if _, emitErr := s.Events.Emit(ctx, events.TopicOrderCreated, payload); emitErr != nil {
			s.Logger.Warn().Err(emitErr).Msg("emit order event")
		}
	}
	return nil
}

// List returns the history, newest order first.
func (s *Store) List() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Get finds an order by id.
func (s *Store) Get(id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (s *Store) persistLocked(ctx context.Context) error {
	orders := s.orders
	if orders == nil {
		orders = []Order{}
	}
	if err := kv.SetJSON(ctx, s.KV, StorageKey, orders); err != nil {
		return fmt.Errorf("order: persist: %w", err)
	}
	if s.Pub != nil {
		if err := s.Pub.PublishChange(ctx, StorageKey); err != nil {
			s.Logger.Warn().Err(err).Msg("publish order change")
		}
	}
	return nil
}
