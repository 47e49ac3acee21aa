package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shuldan/chassis/pkg/contracts"
	"github.com/shuldan/chassis/pkg/errors"
)

type RedisOption func(*redisStore)

// WithKeyPrefix namespaces every key the store touches.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *redisStore) {
		s.prefix = prefix
	}
}

type redisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ contracts.Store = (*redisStore)(nil)

func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) contracts.Store {
	s := &redisStore{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss.WithDetail("key", key)
		}
		return "", err
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
