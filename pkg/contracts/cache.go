package contracts

import (
	"context"
	"time"
)

// Store is a key-value cache. Instances are registered as container
// definitions under the cache type tag, one per configured backend.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

const CacheTypeTag = "cache.Store"
