// Package cache implements the warm-start column cache (the idea that
// "columns discovered by a prior run may seed the next run's RMP"):
// a Redis-backed store of known-good routes keyed by instance identity,
// grounded on gpsnav's internal/api RedisBroker.
package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/azaryc2s/vrptw-cg/internal/vrperr"
)

// ColumnCache stores warm-start routes for an instance key.
type ColumnCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis at url (a redis:// connection string, as parsed
// by redis.ParseURL). ttl bounds how long a cached column set is trusted;
// zero means no expiry.
func New(url string, ttl time.Duration) (*ColumnCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, vrperr.New(vrperr.KindInstance, "cache: parse redis url", err)
	}
	return &ColumnCache{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

func key(instanceKey string) string { return "vrptw:columns:" + instanceKey }

// Store saves routes under instanceKey, overwriting any prior entry.
func (c *ColumnCache) Store(ctx context.Context, instanceKey string, routes [][]int) error {
	data, err := json.Marshal(routes)
	if err != nil {
		return vrperr.New(vrperr.KindInstance, "cache: marshal routes", err)
	}
	if err := c.rdb.Set(ctx, key(instanceKey), data, c.ttl).Err(); err != nil {
		return vrperr.New(vrperr.KindSolverBackendFailure, "cache: redis SET", err)
	}
	return nil
}

// Load returns the cached routes for instanceKey, or ok=false if there is
// no entry (a cache miss is not an error: vrptw-solve falls back to the
// trivial seed routes).
func (c *ColumnCache) Load(ctx context.Context, instanceKey string) (routes [][]int, ok bool, err error) {
	data, rerr := c.rdb.Get(ctx, key(instanceKey)).Bytes()
	if rerr == redis.Nil {
		return nil, false, nil
	}
	if rerr != nil {
		return nil, false, vrperr.New(vrperr.KindSolverBackendFailure, "cache: redis GET", rerr)
	}
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, false, vrperr.New(vrperr.KindInstance, "cache: unmarshal routes", err)
	}
	return routes, true, nil
}

// Close releases the underlying Redis client.
func (c *ColumnCache) Close() error { return c.rdb.Close() }
