package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedClient wraps a Client with a Redis cache. City geography does not
// move, so entries live for a day; any cache failure falls through to the
// wrapped client.
type CachedClient struct {
	inner  Client
	rdb    *redis.Client
	logger *zap.SugaredLogger
	ttl    time.Duration
}

func NewCachedClient(inner Client, rdb *redis.Client, logger *zap.SugaredLogger) *CachedClient {
	return &CachedClient{
		inner:  inner,
		rdb:    rdb,
		logger: logger,
		ttl:    24 * time.Hour,
	}
}

func (c *CachedClient) ResolveCity(ctx context.Context, lat, lon float64) (string, error) {
	key := fmt.Sprintf("geo:city:%.3f:%.3f", lat, lon)

	if city, err := c.rdb.Get(ctx, key).Result(); err == nil {
		return city, nil
	} else if err != redis.Nil {
		c.logger.Warnw("geo cache read failed", "key", key, "error", err)
	}

	city, err := c.inner.ResolveCity(ctx, lat, lon)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, city, c.ttl).Err(); err != nil {
		c.logger.Warnw("geo cache write failed", "key", key, "error", err)
	}
	return city, nil
}

func (c *CachedClient) NearbyCities(ctx context.Context, lat, lon float64) ([]string, error) {
	key := fmt.Sprintf("geo:nearby:%.3f:%.3f", lat, lon)

	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var cities []string
		if err := json.Unmarshal([]byte(raw), &cities); err == nil {
			return cities, nil
		}
	} else if err != redis.Nil {
		c.logger.Warnw("geo cache read failed", "key", key, "error", err)
	}

	cities, err := c.inner.NearbyCities(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(cities); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warnw("geo cache write failed", "key", key, "error", err)
		}
	}
	return cities, nil
}
