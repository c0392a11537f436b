package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	"github.com/Degagemain/degage-sub000/internal/simulation/ports"
)

const cacheKeyPrefix = "estimate:v1"

// Estimator is the combined value and spec port a cache can front.
type Estimator interface {
	ports.ValueEstimator
	ports.SpecEstimator
}

// RedisCache remembers estimates per car and year. Cache failures are
// logged and fall through to the wrapped estimator.
type RedisCache struct {
	next   Estimator
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

type CacheOption func(*RedisCache)

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *RedisCache) { c.logger = logger }
}

func NewRedisCache(next Estimator, client redis.Cmdable, ttl time.Duration, opts ...CacheOption) *RedisCache {
	c := &RedisCache{next: next, client: client, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) EstimateCarValue(ctx context.Context, q ports.CarQuery, firstRegisteredAt time.Time) (ports.PriceRange, error) {
	key := cacheKey("value", q, firstRegisteredAt.Year())
	var cached ports.PriceRange
	if c.get(ctx, key, &cached) {
		return cached, nil
	}
	v, err := c.next.EstimateCarValue(ctx, q, firstRegisteredAt)
	if err != nil {
		return ports.PriceRange{}, err
	}
	c.set(ctx, key, v)
	return v, nil
}

func (c *RedisCache) EstimateCarInfo(ctx context.Context, q ports.CarQuery, buildYear int) (models.CarInfo, error) {
	key := cacheKey("spec", q, buildYear)
	var cached models.CarInfo
	if c.get(ctx, key, &cached) {
		return cached, nil
	}
	info, err := c.next.EstimateCarInfo(ctx, q, buildYear)
	if err != nil {
		return models.CarInfo{}, err
	}
	c.set(ctx, key, info)
	return info, nil
}

func (c *RedisCache) get(ctx context.Context, key string, out any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && c.logger != nil {
			c.logger.WarnContext(ctx, "estimate cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "estimate cache entry corrupt", "key", key, "error", err)
		}
		return false
	}
	return true
}

func (c *RedisCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "estimate cache write failed", "key", key, "error", err)
	}
}

// cacheKey identifies a car by brand, fuel, and either the curated car type
// or the normalized free-text model.
func cacheKey(kind string, q ports.CarQuery, year int) string {
	model := "type=" + q.CarTypeID
	if q.CarTypeID == "" {
		model = "other=" + strings.Join(strings.Fields(strings.ToLower(q.CarTypeOther)), "_")
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s:%s", cacheKeyPrefix, kind, q.BrandID, q.FuelType.ID, model, strconv.Itoa(year))
}
