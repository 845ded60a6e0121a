package kv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound indicates the requested key has no stored value.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence port for string-keyed collections. Domain stores
// depend on this interface so their logic is testable without a live backend.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// Publisher broadcasts change notifications so a second browsing context can
// re-hydrate derived counts. Last writer wins; there is no reconciliation.
type Publisher interface {
	PublishChange(ctx context.Context, key string) error
}

// RedisStore implements Store and Publisher on a Redis client.
type RedisStore struct {
	Client  *redis.Client
	Channel string
}

// NewRedisStore constructs a RedisStore publishing change events on channel.
func NewRedisStore(client *redis.Client, channel string) *RedisStore {
	if channel == "" {
		channel = "storefront:changes"
	}
	return &RedisStore{Client: client, Channel: channel}
}

// Get returns the stored value for key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if s == nil || s.Client == nil {
		return "", errors.New("kv: client not configured")
	}
	val, err := s.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return val, nil
}

// Set stores value under key without expiry.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if s == nil || s.Client == nil {
		return errors.New("kv: client not configured")
	}
	return s.Client.Set(ctx, key, value, 0).Err()
}

// Del removes the key.
func (s *RedisStore) Del(ctx context.Context, key string) error {
	if s == nil || s.Client == nil {
		return errors.New("kv: client not configured")
	}
	return s.Client.Del(ctx, key).Err()
}

// PublishChange notifies other contexts that key was mutated.
func (s *RedisStore) PublishChange(ctx context.Context, key string) error {
	if s == nil || s.Client == nil {
		return errors.New("kv: client not configured")
	}
	return s.Client.Publish(ctx, s.Channel, key).Err()
}

// SubscribeChanges delivers mutated key names until ctx is cancelled.
func (s *RedisStore) SubscribeChanges(ctx context.Context, fn func(key string)) error {
	if s == nil || s.Client == nil {
		return errors.New("kv: client not configured")
	}
	if fn == nil {
		return errors.New("kv: callback not provided")
	}
	sub := s.Client.Subscribe(ctx, s.Channel)
	defer func() { _ = sub.Close() }()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fn(msg.Payload)
		}
	}
}

// DecodeError marks a stored value that exists but cannot be parsed. Callers
// typically treat the entry as absent and overwrite it on the next write.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string { return "kv: decode " + e.Key + ": " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// GetJSON unmarshals the stored JSON value into dst. It reports whether the
// key existed. A present but unparseable value is returned as a DecodeError
// so the caller can decide how to degrade.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, &DecodeError{Key: key, Err: err}
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(data))
}
