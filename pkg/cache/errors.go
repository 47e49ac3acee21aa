package cache

import "github.com/shuldan/chassis/pkg/errors"

var newCacheCode = errors.WithPrefix("CACHE")

var (
	ErrCacheMiss        = newCacheCode().New("key {{.key}} not found")
	ErrStoreClosed      = newCacheCode().New("cache store is closed")
	ErrStoresNotFound   = newCacheCode().New("no cache stores configured")
	ErrUnknownDriver    = newCacheCode().New("unknown cache driver {{.driver}} for store {{.name}}")
	ErrAddrNotSpecified = newCacheCode().New("redis store {{.name}} has no address")
)
