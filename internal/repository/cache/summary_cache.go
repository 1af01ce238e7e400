package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventbooking/internal/domain"

	"github.com/redis/go-redis/v9"
)

const summaryKeyPrefix = "analytics:organizer:"

func summaryKey(organizerID string) string {
	return summaryKeyPrefix + organizerID
}

type summaryCache struct {
	Redis redis.Cmdable
	TTL   time.Duration
}

// NewSummaryCache stores organizer summaries as JSON under a per-organizer key.
func NewSummaryCache(client redis.Cmdable, ttl time.Duration) domain.SummaryCache {
	return &summaryCache{Redis: client, TTL: ttl}
}

func (c *summaryCache) Get(ctx context.Context, organizerID string) (*domain.OrganizerSummary, bool, error) {
	raw, err := c.Redis.Get(ctx, summaryKey(organizerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get summary: %w", err)
	}
	var s domain.OrganizerSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, false, fmt.Errorf("decode summary: %w", err)
	}
	return &s, true, nil
}

func (c *summaryCache) Set(ctx context.Context, summary *domain.OrganizerSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := c.Redis.Set(ctx, summaryKey(summary.OrganizerID), string(data), c.TTL).Err(); err != nil {
		return fmt.Errorf("set summary: %w", err)
	}
	return nil
}

func (c *summaryCache) Invalidate(ctx context.Context, organizerID string) error {
	if err := c.Redis.Del(ctx, summaryKey(organizerID)).Err(); err != nil {
		return fmt.Errorf("invalidate summary: %w", err)
	}
	return nil
}

type noopCache struct{}

// NewNoopCache is used when no redis URL is configured. Every Get misses.
func NewNoopCache() domain.SummaryCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string) (*domain.OrganizerSummary, bool, error) {
	return nil, false, nil
}

func (noopCache) Set(context.Context, *domain.OrganizerSummary) error { return nil }

func (noopCache) Invalidate(context.Context, string) error { return nil }
