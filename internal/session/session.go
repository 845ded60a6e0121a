package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nutrihaven/storefront/internal/kv"
)

// Persisted session keys. The session is a demo stand-in: a flag and a
// display name, no credentials.
const (
	LoggedInKey = "isLoggedIn"
	UserNameKey = "userName"
)

// ErrNotLoggedIn indicates no customer is signed in.
var ErrNotLoggedIn = errors.New("not logged in")

// Manager reads and writes the signed-in session through the key-value port.
type Manager struct {
	KV     kv.Store
	Pub    kv.Publisher
	Logger zerolog.Logger
}

// LoggedIn reports whether a customer is signed in.
func (m *Manager) LoggedIn(ctx context.Context) (bool, error) {
	val, err := m.KV.Get(ctx, LoggedInKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("session: read flag: %w", err)
	}
	return val == "true", nil
}

// UserName returns the signed-in display name.
func (m *Manager) UserName(ctx context.Context) (string, error) {
	in, err := m.LoggedIn(ctx)
	if err != nil {
		return "", err
	}
	if !in {
		return "", ErrNotLoggedIn
	}
	name, err := m.KV.Get(ctx, UserNameKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("session: read name: %w", err)
	}
	return name, nil
}

// Login signs the customer in under the provided display name.
func (m *Manager) Login(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("session: name is required")
	}
	if err := m.KV.Set(ctx, LoggedInKey, "true"); err != nil {
		return fmt.Errorf("session: write flag: %w", err)
	}
	if err := m.KV.Set(ctx, UserNameKey, name); err != nil {
		return fmt.Errorf("session: write name: %w", err)
	}
	m.publish(ctx, LoggedInKey)
	return nil
}

// Logout signs the customer out. The stored name is removed as well.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.KV.Del(ctx, LoggedInKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("session: clear flag: %w", err)
	}
	if err := m.KV.Del(ctx, UserNameKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("session: clear name: %w", err)
	}
	m.publish(ctx, LoggedInKey)
	return nil
}

func (m *Manager) publish(ctx context.Context, key string) {
	if m.Pub == nil {
		return
	}
	if err := m.Pub.PublishChange(ctx, key); err != nil {
		m.Logger.Warn().Err(err).Msg("publish session change")
	}
}
