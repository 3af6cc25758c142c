package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/codewiththura/stratum-planner/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyListPrefix = "plans:list:"

// PlanCache caches each user's plan list in Redis. The cached list is the
// canonical store order; sorting happens after the read.
type PlanCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPlanCache returns a new PlanCache.
func NewPlanCache(rdb *redis.Client, ttl time.Duration) *PlanCache {
	return &PlanCache{rdb: rdb, ttl: ttl}
}

func listKey(userID int64) string {
	return keyListPrefix + strconv.FormatInt(userID, 10)
}

// GetList returns the cached plan list for the user, or nil on miss.
func (c *PlanCache) GetList(ctx context.Context, userID int64) ([]dom.Plan, error) {
	b, err := c.rdb.Get(ctx, listKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Plan
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the user's plan list.
func (c *PlanCache) SetList(ctx context.Context, userID int64, list []dom.Plan) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID), b, c.ttl).Err()
}

// Invalidate removes the user's cached list (called on every write).
func (c *PlanCache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, listKey(userID)).Err()
}

// PurgeAll removes every cached plan list. Runs from the midnight sweep so
// day-relative values derived from a stale "today" never outlive the date.
func (c *PlanCache) PurgeAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyListPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
