package infrastructure

import (
	"context"
	"testing"
	"time"

	"gemwheel/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T) string {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate redis container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return url
}

func TestCachedMarketData_GetCurrentPrice(t *testing.T) {
	url := setupRedis(t)
	ctx := context.Background()

	rdb, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	defer rdb.Close()

	inner := new(testhelpers.MockMarketDataProvider)
	cache := NewCachedMarketData(rdb, inner, time.Minute)

	t.Run("miss then hit", func(t *testing.T) {
		price := decimal.RequireFromString("3120.5")
		inner.On("GetCurrentPrice", mock.Anything, "ETH").Return(&price).Once()

		first := cache.GetCurrentPrice(ctx, "ETH")
		require.NotNil(t, first)
		assert.True(t, price.Equal(*first))

		second := cache.GetCurrentPrice(ctx, "eth")
		require.NotNil(t, second)
		assert.True(t, price.Equal(*second))

		ttl, err := rdb.TTL(ctx, priceKey("ETH")).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 50*time.Second)
		inner.AssertNumberOfCalls(t, "GetCurrentPrice", 1)
	})

	t.Run("unavailable price is not cached", func(t *testing.T) {
		inner.On("GetCurrentPrice", mock.Anything, "DCR").Return(nil).Twice()

		assert.Nil(t, cache.GetCurrentPrice(ctx, "DCR"))
		assert.Nil(t, cache.GetCurrentPrice(ctx, "DCR"))

		exists, err := rdb.Exists(ctx, priceKey("DCR")).Result()
		require.NoError(t, err)
		assert.Zero(t, exists)
	})

	t.Run("garbage entry refetched", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, priceKey("SOL"), "not-a-number", time.Minute).Err())
		price := decimal.NewFromInt(150)
		inner.On("GetCurrentPrice", mock.Anything, "SOL").Return(&price).Once()

		got := cache.GetCurrentPrice(ctx, "SOL")
		require.NotNil(t, got)
		assert.Equal(t, "150", got.String())
	})
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "://nope")
	assert.ErrorContains(t, err, "failed to parse redis url")
}
