package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service stores opaque byte payloads under string keys.
type Service interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	// Purge drops every key owned by this cache.
	Purge(ctx context.Context) error
	Close() error
}

// SetJSON marshals value and stores it.
func SetJSON(ctx context.Context, c Service, key string, value any, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, expiration)
}

// GetJSON loads key into a typed value. A miss returns ErrCacheMiss.
func GetJSON[T any](ctx context.Context, c Service, key string) (T, error) {
	var out T
	b, err := c.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Nop never stores anything; every Get misses.
type Nop struct{}

func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Get(context.Context, string) ([]byte, error)              { return nil, ErrCacheMiss }
func (Nop) Delete(context.Context, ...string) error                  { return nil }
func (Nop) Purge(context.Context) error                              { return nil }
func (Nop) Close() error                                             { return nil }
