package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gemwheel/domain/interfaces"
	"gemwheel/infrastructure/observability"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CachedMarketData serves prices from redis and falls back to the wrapped provider
type CachedMarketData struct {
	rdb   *redis.Client
	inner interfaces.MarketDataProvider
	ttl   time.Duration
}

// NewRedisClient parses a redis:// URL and verifies the server answers
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewCachedMarketData wraps inner with a redis cache of the given TTL
func NewCachedMarketData(rdb *redis.Client, inner interfaces.MarketDataProvider, ttl time.Duration) interfaces.MarketDataProvider {
	return &CachedMarketData{
		rdb:   rdb,
		inner: inner,
		ttl:   ttl,
	}
}

func priceKey(symbol string) string {
	return "price:usd:" + strings.ToUpper(symbol)
}

// GetCurrentPrice returns a cached price when fresh. Cache errors degrade to a direct lookup.
func (c *CachedMarketData) GetCurrentPrice(ctx context.Context, symbol string) *decimal.Decimal {
	key := priceKey(symbol)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if price, perr := decimal.NewFromString(cached); perr == nil {
			observability.GetMetrics().RecordMarketLookup(observability.LookupCacheHit)
			return &price
		}
		log.WithField("key", key).Warn("Discarding unparsable cached price")
	case !errors.Is(err, redis.Nil):
		log.WithError(err).Warn("Price cache read failed")
	}

	price := c.inner.GetCurrentPrice(ctx, symbol)
	if price == nil {
		return nil
	}

	if err := c.rdb.Set(ctx, key, price.String(), c.ttl).Err(); err != nil {
		log.WithError(err).Warn("Price cache write failed")
	}
	return price
}
