package cache

import (
	"context"
	"eld-trip-planner/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisGeocodeCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisGeocodeCache(client, ttl, nil)
	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

func TestRedisGeocodeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Hour)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinate{
		"denver": {Lat: 39.7392, Lon: -104.9903},
	}))

	assert.True(t, mr.Exists("eld:geocode:denver"))
	assert.Equal(t, time.Hour, mr.TTL("eld:geocode:denver"))

	got, err := c.GetMany(ctx, []string{"denver", "seattle"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinate{"denver": {Lat: 39.7392, Lon: -104.9903}}, got)
}

func TestRedisGeocodeCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinate{"dallas": {Lat: 32.7767, Lon: -96.797}}))
	mr.FastForward(2 * time.Minute)

	got, err := c.GetMany(ctx, []string{"dallas"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisGeocodeCacheSkipsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 0)

	require.NoError(t, mr.Set("eld:geocode:houston", "not json"))

	got, err := c.GetMany(ctx, []string{"houston"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisGeocodeCacheUnavailable(t *testing.T) {
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	c := NewRedisGeocodeCache(redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1}), 0, nil)
	defer c.Close()

	_, err = c.GetMany(ctx, []string{"phoenix"})
	require.Error(t, err)

	err = c.PutMany(ctx, map[string]domain.Coordinate{"phoenix": {Lat: 33.4484, Lon: -112.074}})
	require.Error(t, err)
}
