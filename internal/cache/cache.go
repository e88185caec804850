// Package cache is a short-TTL Redis cache in front of leaderboard reads,
// which are by far the hottest read path and tolerate staleness up to one
// aggregation interval anyway.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

func leaderboardKey(periodType model.PeriodType, limit int) string {
	return "leaderboard:" + string(periodType) + ":" + time.Now().UTC().Format("2006-01-02") + ":" + strconv.Itoa(limit)
}

// GetLeaderboard returns the cached rows and whether there was a hit. Cache
// errors degrade to a miss; the database remains the source of truth.
func (c *Cache) GetLeaderboard(ctx context.Context, periodType model.PeriodType, limit int) ([]model.LeaderboardAggregate, bool) {
	data, err := c.rdb.Get(ctx, leaderboardKey(periodType, limit)).Bytes()
	if err != nil {
		return nil, false
	}

	var rows []model.LeaderboardAggregate
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (c *Cache) SetLeaderboard(ctx context.Context, periodType model.PeriodType, limit int, rows []model.LeaderboardAggregate) {
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, leaderboardKey(periodType, limit), data, c.ttl).Err()
}
