package cache

import (
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "eld:geocode:"

type redisCoordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RedisGeocodeCache keeps resolved coordinates in Redis as JSON values with
// a TTL. It is meant as a shared layer in front of the SQL caches.
type RedisGeocodeCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return client, nil
}

// A zero ttl stores entries without expiry.
func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisGeocodeCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisGeocodeCache{
		client: client,
		prefix: redisKeyPrefix,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "redis_geocode_cache")),
	}
}

func (c *RedisGeocodeCache) Close() error {
	return c.client.Close()
}

func (c *RedisGeocodeCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisGeocodeCache) GetMany(ctx context.Context, keys []string) (_ map[string]domain.Coordinate, err error) {
	defer obs.Time(ctx, c.logger, "geocode.cache.redis.GetMany")(&err)

	if c.client == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]domain.Coordinate{}, nil
	}

	full := make([]string, len(uniq))
	for i, k := range uniq {
		full[i] = c.key(k)
	}

	vals, err := c.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: redis mget: %w", err)
	}

	out := make(map[string]domain.Coordinate, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		var rc redisCoordinate
		if err := json.Unmarshal([]byte(s), &rc); err != nil {
			c.logger.Warn("dropping malformed cache entry", zap.String("key", uniq[i]), zap.Error(err))
			continue
		}
		out[uniq[i]] = domain.Coordinate{Lat: rc.Lat, Lon: rc.Lon}
	}

	return out, nil
}

func (c *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinate) (err error) {
	defer obs.Time(ctx, c.logger, "geocode.cache.redis.PutMany")(&err)

	if c.client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for k, coord := range results {
		if k == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}

		data, err := json.Marshal(redisCoordinate{Lat: coord.Lat, Lon: coord.Lon})
		if err != nil {
			return fmt.Errorf("insert geocode cache: json marshal: %w", err)
		}
		pipe.Set(ctx, c.key(k), data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: redis pipeline: %w", err)
	}

	return nil
}
