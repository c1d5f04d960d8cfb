package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/zatekoja/boulevard/internal/domain/providers"
	redisclient "github.com/zatekoja/boulevard/internal/infrastructure/clients/redis"
)

// RedisStore implements the KeyValueStore interface using Redis
type RedisStore struct {
	client *redisclient.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed store. Every key is namespaced by prefix.
func NewRedisStore(client *redisclient.Client, prefix string) providers.KeyValueStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a value from Redis
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	result, err := s.client.Client().Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", providers.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s from store: %w", key, err)
	}
	return result, nil
}

// Set stores a value without expiry
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Client().Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s in store: %w", key, err)
	}
	return nil
}

// Delete removes a value from Redis
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Client().Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from store: %w", key, err)
	}
	return nil
}
