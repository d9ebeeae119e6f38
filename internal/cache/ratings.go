package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

// RatingSummaryCache keeps per-joke rating aggregates in redis so the average
// endpoint doesn't hit postgres on every read. Writers invalidate.
type RatingSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRatingSummaryCache(client *redis.Client, ttl time.Duration) *RatingSummaryCache {
	return &RatingSummaryCache{client: client, ttl: ttl}
}

// NewRedisClient connects and verifies the connection.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func key(jokeID string) string {
	return fmt.Sprintf("joke:ratings:%s", jokeID)
}

// Get returns the cached summary, or ok=false on a miss. Errors are treated
// as misses; the caller falls back to the database.
func (c *RatingSummaryCache) Get(ctx context.Context, jokeID string) (*RatingSummary, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	fields, err := c.client.HGetAll(ctx, key(jokeID)).Result()
	if err != nil || len(fields) == 0 {
		return nil, false
	}

	var s RatingSummary
	if _, err := fmt.Sscanf(fields["average"], "%f", &s.AverageRating); err != nil {
		return nil, false
	}
	if _, err := fmt.Sscanf(fields["count"], "%d", &s.RatingCount); err != nil {
		return nil, false
	}
	return &s, true
}

func (c *RatingSummaryCache) Set(ctx context.Context, jokeID string, s RatingSummary) error {
	if c == nil || c.client == nil {
		return nil
	}
	k := key(jokeID)
	fields := map[string]any{
		"average": fmt.Sprintf("%.1f", s.AverageRating),
		"count":   s.RatingCount,
	}
	if err := c.client.HSet(ctx, k, fields).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, k, c.ttl).Err()
}

func (c *RatingSummaryCache) Invalidate(ctx context.Context, jokeID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key(jokeID)).Err()
}
