// internal/handlers/compose-price/cache.go
package composeprice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecommerce-gateway/internal/common/database"
	"ecommerce-gateway/internal/common/logger"
	"ecommerce-gateway/internal/common/metrics"
)

// Cache stores complete composed responses in Redis. The cache is advisory:
// read or write failures are logged and the fan-out proceeds as usual.
// Partial and failed responses are never stored.
type Cache struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCache(redis *database.RedisClient, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		redis:  redis,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "compose-cache"}),
	}
}

func (c *Cache) Get(ctx context.Context, req *CompositionRequest) (*ComposedResponse, bool) {
	raw, err := c.redis.Get(ctx, c.key(req))
	if err != nil {
		metrics.ComposeCacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}

	var resp ComposedResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		c.logger.Warn("dropping undecodable cache entry", map[string]interface{}{
			"key":   c.key(req),
			"error": err.Error(),
		})
		_ = c.redis.Del(ctx, c.key(req))
		metrics.ComposeCacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}

	resp.Cached = true
	metrics.ComposeCacheHits.WithLabelValues("hit").Inc()
	return &resp, true
}

func (c *Cache) Put(ctx context.Context, req *CompositionRequest, resp *ComposedResponse) {
	if resp.Status != StatusComplete {
		return
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key(req), string(raw), c.ttl); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   c.key(req),
			"error": err.Error(),
		})
	}
}

func (c *Cache) key(req *CompositionRequest) string {
	return fmt.Sprintf("compose:price:%s:%s:%t", req.ProductID, req.Currency, req.IncludePromotions)
}
