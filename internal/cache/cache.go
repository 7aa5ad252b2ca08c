// Package cache provides the TTL key/value stores used for market data.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/iwvelando/investment-tracker/pkg/constants"
	"go.uber.org/zap"
)

// Cache stores opaque values with a per-entry time to live.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Options selects and configures a cache backend.
type Options struct {
	Backend       string
	RedisAddress  string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// New builds the cache backend named in opts. An empty backend means memory.
func New(logger *zap.Logger, opts Options) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.Backend {
	case "", constants.CacheBackendMemory:
		logger.Debug("using in-memory cache",
			zap.String("op", "cache.New"),
		)
		return NewMemory(), nil
	case constants.CacheBackendRedis:
		logger.Debug(fmt.Sprintf("using redis cache at %s", opts.RedisAddress),
			zap.String("op", "cache.New"),
		)
		return NewRedis(opts.RedisAddress, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
