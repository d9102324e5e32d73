package redisstore

// Package redisstore provides a Redis-backed persistent state store for
// shared-workstation (kiosk) deployments where local disk is wiped between
// shifts. Keys are namespaced per workstation via the configured prefix.

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mediwound/wardview/internal/ports"
)

// Store is a Redis-based ports.StateStore.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// New creates a Redis state store with the given key prefix.
func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(k ports.Key) string { return s.prefix + string(k) }

func (s *Store) Get(ctx context.Context, key ports.Key) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key ports.Key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...ports.Key) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
