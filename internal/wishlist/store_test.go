package wishlist_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nutrihaven/storefront/internal/events"
	"github.com/nutrihaven/storefront/internal/kv"
	"github.com/nutrihaven/storefront/internal/wishlist"
)

type recordingNotifier struct {
	topics []string
}

func (n *recordingNotifier) Notify(_ context.Context, evt events.Event) error {
	n.topics = append(n.topics, evt.Topic)
	return nil
}

func newTestStore(t *testing.T) (*wishlist.Store, *kv.RedisStore, *recordingNotifier) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rs := kv.NewRedisStore(client, "test:changes")
	rec := &recordingNotifier{}
	bus := &events.Bus{Notifiers: []events.Notifier{rec}}
	s, err := wishlist.NewStore(context.Background(), rs, rs, bus, zerolog.Nop())
	require.NoError(t, err)
	return s, rs, rec
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _, rec := newTestStore(t)
	s.Now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, s.Add(ctx, wishlist.Item{ID: "1", Name: "Premium Cashews", Price: 24.99}))
	require.NoError(t, s.Add(ctx, wishlist.Item{ID: "1", Name: "Premium Cashews", Price: 24.99}))

	items := s.List()
	require.Len(t, items, 1)
	require.Equal(t, "2026-08-01T12:00:00Z", items[0].DateAdded)
	require.Equal(t, 1, s.Count())
	// Only the first add notifies.
	require.Equal(t, []string{events.TopicWishlistAdded}, rec.topics)
}

func TestToggleFlipsSavedState(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	item := wishlist.Item{ID: "3", Name: "Dried Cranberries", Price: 18.99}

	saved, err := s.Toggle(ctx, item)
	require.NoError(t, err)
	require.True(t, saved)
	require.True(t, s.Has("3"))

	saved, err = s.Toggle(ctx, item)
	require.NoError(t, err)
	require.False(t, saved)
	require.False(t, s.Has("3"))
}

func TestRemoveUnknownItem(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	require.ErrorIs(t, s.Remove(ctx, "missing"), wishlist.ErrNotFound)
}

func TestWriteThroughSurvivesRehydration(t *testing.T) {
	ctx := context.Background()
	s, rs, _ := newTestStore(t)

	require.NoError(t, s.Add(ctx, wishlist.Item{ID: "5", Name: "Mixed Berries", Price: 21.99}))
	require.NoError(t, s.Add(ctx, wishlist.Item{ID: "6", Name: "Walnuts", Price: 26.99}))

	fresh, err := wishlist.NewStore(ctx, rs, rs, nil, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 2, fresh.Count())

	items := fresh.List()
	require.Equal(t, "5", items[0].ID)
	require.Equal(t, "6", items[1].ID)
}

func TestCorruptStoredWishlistYieldsEmptyCollection(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rs := kv.NewRedisStore(client, "test:changes")

	require.NoError(t, rs.Set(ctx, wishlist.StorageKey, "[broken"))

	s, err := wishlist.NewStore(ctx, rs, rs, nil, zerolog.Nop())
	require.NoError(t, err)
	require.Zero(t, s.Count())
}
