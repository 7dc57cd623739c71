// Package cache stores short-lived serialized values, in Redis when one is
// configured and in process memory otherwise.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// Incr atomically adds one to the counter at key and returns the new
	// value; ttl, when positive, is refreshed on every call.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// New picks Redis when addr is set.
func New(addr, password, prefix string) Cache {
	if addr == "" {
		return NewMemory()
	}
	return NewRedis(addr, password, prefix)
}

func GetJSON(ctx context.Context, c Cache, key string, dst any) error {
	b, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return nil
}

func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return c.Set(ctx, key, b, ttl)
}

// Generation reads a counter maintained by Incr; an absent counter is 0.
func Generation(ctx context.Context, c Cache, key string) (int64, error) {
	b, err := c.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cache: counter %s: %w", key, err)
	}
	return n, nil
}
