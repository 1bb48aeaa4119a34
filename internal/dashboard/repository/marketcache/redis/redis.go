package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/marketcache"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "market:"

type MarketCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(rdb *redis.Client, expTime time.Duration) MarketCache {
	return MarketCache{
		rdb:     rdb,
		expTime: expTime,
	}
}

func (mc MarketCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := mc.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, marketcache.ErrMiss
	} else if err != nil {
		return nil, fmt.Errorf("get error: %w", err)
	}

	return b, nil
}

func (mc MarketCache) Set(ctx context.Context, key string, value []byte) error {
	if _, err := mc.rdb.Set(ctx, keyPrefix+key, value, mc.expTime).Result(); err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}

func (mc MarketCache) Shutdown(_ context.Context) error {
	if err := mc.rdb.Close(); err != nil {
		return fmt.Errorf("close redis error: %w", err)
	}

	return nil
}
