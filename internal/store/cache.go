// internal/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/models"
)

const activeSnapshotKey = "needme:providers:active"

// CachedStore puts a short-lived Redis snapshot in front of another
// ProviderStore. A request scores against the snapshot that was current
// at submission; staleness up to the TTL is acceptable by design of the
// matching lifecycle.
type CachedStore struct {
	inner  ProviderStore
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStore(inner ProviderStore, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "provider-cache"}),
	}
}

func (c *CachedStore) ListActiveProviders(ctx context.Context) ([]models.Provider, error) {
	if val, err := c.redis.Get(ctx, activeSnapshotKey).Result(); err == nil {
		var providers []models.Provider
		if err := json.Unmarshal([]byte(val), &providers); err == nil {
			return providers, nil
		}
		// Corrupt cache entry: fall through to the source of truth.
		c.redis.Del(ctx, activeSnapshotKey)
	}

	providers, err := c.inner.ListActiveProviders(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(providers); err == nil {
		if err := c.redis.Set(ctx, activeSnapshotKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache provider snapshot", map[string]interface{}{
				"error": err,
			})
		}
	}
	return providers, nil
}

func (c *CachedStore) ListAllProviders(ctx context.Context) ([]models.Provider, error) {
	return c.inner.ListAllProviders(ctx)
}

// UpsertProviders writes through and invalidates the snapshot so new
// providers become matchable on the next cycle.
func (c *CachedStore) UpsertProviders(ctx context.Context, providers []models.Provider) (int, error) {
	inserted, err := c.inner.UpsertProviders(ctx, providers)
	if inserted > 0 {
		c.redis.Del(ctx, activeSnapshotKey)
	}
	return inserted, err
}

func (c *CachedStore) CountProviders(ctx context.Context) (int, error) {
	return c.inner.CountProviders(ctx)
}
