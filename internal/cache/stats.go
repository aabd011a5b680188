package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	platformStatsKey = "stats:platform"
	statsTTL         = 10 * time.Second
)

// StatsCache keeps admin dashboard rollups hot. Dashboards poll every ~15s,
// so a short TTL keeps the count queries off the database without going
// noticeably stale.
type StatsCache interface {
	GetPlatformStats(ctx context.Context) (*models.PlatformStats, error)
	SetPlatformStats(ctx context.Context, stats *models.PlatformStats) error
}

type statsCache struct {
	client *redis.Client
}

func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{client: client}
}

func (c *statsCache) GetPlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	data, err := c.client.Get(ctx, platformStatsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats models.PlatformStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *statsCache) SetPlatformStats(ctx context.Context, stats *models.PlatformStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, platformStatsKey, data, statsTTL).Err()
}
