package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsKey = "stats:guests"

// Cache holds the computed guest-statistics report and backs the rate
// limiter counters.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

// GetStatistics returns the cached report, or nil on a miss.
func (c *Cache) GetStatistics(ctx context.Context) (map[string]float64, error) {
	val, err := c.client.Get(ctx, statsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats map[string]float64
	if err := json.Unmarshal(val, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Cache) SetStatistics(ctx context.Context, stats map[string]float64, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, data, ttl).Err()
}

// InvalidateStatistics drops the cached report after any mutation that
// affects booking totals.
func (c *Cache) InvalidateStatistics(ctx context.Context) error {
	return c.client.Del(ctx, statsKey).Err()
}
