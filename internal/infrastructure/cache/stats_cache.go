package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StatsTTL bounds how stale a cached dashboard may get between invalidations.
const StatsTTL = 60 * time.Second

type StatsCache interface {
	// Get returns nil without error on a cache miss.
	Get(ctx context.Context, clinicID uuid.UUID) (*entity.DashboardStats, error)
	Set(ctx context.Context, clinicID uuid.UUID, stats *entity.DashboardStats) error
	Invalidate(ctx context.Context, clinicID uuid.UUID) error
}

type redisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client) StatsCache {
	return &redisStatsCache{client: client, ttl: StatsTTL}
}

func statsKey(clinicID uuid.UUID) string {
	return fmt.Sprintf("dashboard_stats:%s", clinicID.String())
}

func (c *redisStatsCache) Get(ctx context.Context, clinicID uuid.UUID) (*entity.DashboardStats, error) {
	raw, err := c.client.Get(ctx, statsKey(clinicID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats entity.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *redisStatsCache) Set(ctx context.Context, clinicID uuid.UUID, stats *entity.DashboardStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(clinicID), raw, c.ttl).Err()
}

func (c *redisStatsCache) Invalidate(ctx context.Context, clinicID uuid.UUID) error {
	return c.client.Del(ctx, statsKey(clinicID)).Err()
}
