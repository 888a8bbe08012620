package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

const activeCacheKey = "catalog:active:v1"

// ActiveLister is the slice of the repository the cache sits in front of.
type ActiveLister interface {
	ListActive(ctx context.Context) ([]Service, error)
}

// Cache is a read-through cache of the active service list. Every cache
// error degrades to the underlying repository; the public selector never
// fails because Redis is down.
type Cache struct {
	source ActiveLister
	client redis.UniversalClient
	ttl    time.Duration
	logger *logging.Logger
}

// NewCache wraps source with a Redis cache. A nil client disables caching.
func NewCache(source ActiveLister, client redis.UniversalClient, ttl time.Duration, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		source: source,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// ListActive returns the active services, from cache when possible.
func (c *Cache) ListActive(ctx context.Context) ([]Service, error) {
	if c.client != nil {
		raw, err := c.client.Get(ctx, activeCacheKey).Bytes()
		if err == nil {
			var cached []Service
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			c.logger.Warn("catalog cache entry corrupt, refetching", "key", activeCacheKey)
		} else if err != redis.Nil {
			c.logger.Warn("catalog cache read failed", "error", err)
		}
	}

	services, err := c.source.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		if raw, err := json.Marshal(services); err == nil {
			if err := c.client.Set(ctx, activeCacheKey, raw, c.ttl).Err(); err != nil {
				c.logger.Warn("catalog cache write failed", "error", err)
			}
		}
	}
	return services, nil
}

// ActiveServiceTitle resolves a service id against the active list. The
// list is small, so a scan beats a second round trip.
func (c *Cache) ActiveServiceTitle(ctx context.Context, id string) (string, bool, error) {
	services, err := c.ListActive(ctx)
	if err != nil {
		return "", false, err
	}
	for _, s := range services {
		if s.ID == id {
			return s.Title, true, nil
		}
	}
	return "", false, nil
}

// Options projects the active list into selector options.
func (c *Cache) Options(ctx context.Context) ([]Option, error) {
	services, err := c.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(services))
	for _, s := range services {
		options = append(options, Option{ID: s.ID, Title: s.Title})
	}
	return options, nil
}

// Invalidate drops the cached list. Called after every admin mutation.
func (c *Cache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, activeCacheKey).Err(); err != nil {
		c.logger.Warn("catalog cache invalidate failed", "error", err)
	}
}
