package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nutrihaven/storefront/internal/common"
	"github.com/nutrihaven/storefront/internal/kv"
	"github.com/nutrihaven/storefront/internal/session"
)

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rs := kv.NewRedisStore(client, "test:changes")
	return &session.Manager{KV: rs, Pub: rs, Logger: zerolog.Nop()}
}

func TestLoginLogoutRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	in, err := m.LoggedIn(ctx)
	require.NoError(t, err)
	require.False(t, in)

	require.NoError(t, m.Login(ctx, "Asha"))
	in, err = m.LoggedIn(ctx)
	require.NoError(t, err)
	require.True(t, in)

	name, err := m.UserName(ctx)
	require.NoError(t, err)
	require.Equal(t, "Asha", name)

	require.NoError(t, m.Logout(ctx))
	_, err = m.UserName(ctx)
	require.ErrorIs(t, err, session.ErrNotLoggedIn)
}

func TestLoginRequiresName(t *testing.T) {
	m := newTestManager(t)
	require.Error(t, m.Login(context.Background(), "   "))
}

func TestMiddlewareInjectsUser(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	require.NoError(t, m.Login(ctx, "Asha"))

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = common.UserID(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	m.Middleware(next).ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "Asha", got)
}

func TestMiddlewarePassesThroughAnonymous(t *testing.T) {
	m := newTestManager(t)

	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = common.UserID(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	m.Middleware(next).ServeHTTP(httptest.NewRecorder(), req)
	require.False(t, ok)
}
