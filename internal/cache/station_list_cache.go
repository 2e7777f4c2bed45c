// Package cache holds the optional redis-backed read cache for per-owner
// station lists. Every mutation invalidates the owner's entry, so a stale
// read lives at most one TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"voltpoint/internal/models"
	"voltpoint/internal/service"
)

// StationListCache caches owner-scoped station lists as JSON blobs.
type StationListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStationListCache returns redis-backed cache.
func NewStationListCache(client *redis.Client, ttl time.Duration) *StationListCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StationListCache{client: client, ttl: ttl}
}

func (c *StationListCache) key(ownerID int64) string {
	return fmt.Sprintf("stations:owner:%d", ownerID)
}

// Get returns the cached list for an owner, or service.ErrCacheMiss.
func (c *StationListCache) Get(ctx context.Context, ownerID int64) ([]models.Station, error) {
	result, err := c.client.Get(ctx, c.key(ownerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, service.ErrCacheMiss
		}
		return nil, err
	}
	var stations []models.Station
	if err := json.Unmarshal([]byte(result), &stations); err != nil {
		return nil, err
	}
	if stations == nil {
		stations = []models.Station{}
	}
	return stations, nil
}

// Save caches the owner's list.
func (c *StationListCache) Save(ctx context.Context, ownerID int64, stations []models.Station) error {
	data, err := json.Marshal(stations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(ownerID), data, c.ttl).Err()
}

// Invalidate removes the owner's cached list.
func (c *StationListCache) Invalidate(ctx context.Context, ownerID int64) error {
	return c.client.Del(ctx, c.key(ownerID)).Err()
}
