package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/mverbeke/kassa-api/internal/config"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	domainRepo "github.com/mverbeke/kassa-api/internal/domain/repository"
	"github.com/redis/go-redis/v9"
)

const recentSalesKey = "sales:recent"

type redisSalesCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSalesCache creates a Redis-backed cache for the recent-sales
// listing. Redis being down degrades to cache misses, never to errors.
func NewRedisSalesCache(cfg *config.RedisConfig, ttl time.Duration) domainRepo.SalesCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &redisSalesCache{client: client, ttl: ttl}
}

func (c *redisSalesCache) GetRecent(ctx context.Context, limit int) ([]entity.Sale, bool) {
	val, err := c.client.Get(ctx, recentSalesKey).Result()
	if err != nil {
		return nil, false
	}

	var sales []entity.Sale
	if err := json.Unmarshal([]byte(val), &sales); err != nil {
		return nil, false
	}

	// A cached list shorter than the request cannot answer it
	if len(sales) < limit {
		return nil, false
	}
	if limit > 0 && len(sales) > limit {
		sales = sales[:limit]
	}
	return sales, true
}

func (c *redisSalesCache) SetRecent(ctx context.Context, sales []entity.Sale) {
	data, err := json.Marshal(sales)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, recentSalesKey, data, c.ttl).Err(); err != nil {
		log.Printf("Warning: failed to cache recent sales: %v", err)
	}
}

func (c *redisSalesCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, recentSalesKey).Err(); err != nil {
		log.Printf("Warning: failed to invalidate recent sales cache: %v", err)
	}
}

// NoopSalesCache is used when Redis is disabled; every read is a miss.
type NoopSalesCache struct{}

func (NoopSalesCache) GetRecent(ctx context.Context, limit int) ([]entity.Sale, bool) {
	return nil, false
}

func (NoopSalesCache) SetRecent(ctx context.Context, sales []entity.Sale) {}

func (NoopSalesCache) Invalidate(ctx context.Context) {}
