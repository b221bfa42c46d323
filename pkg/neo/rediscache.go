package neo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// RedisFeedCache is a Feed backed by a shared Redis instance, for deployments
// where several sentinel processes should reuse one upstream fetch. Local
// single-flight still prevents one process from issuing duplicate requests;
// cross-process duplicates are bounded by the cache TTL.
type RedisFeedCache struct {
	fetcher    Fetcher
	rdb        *redis.Client
	ttl        time.Duration
	windowDays int
	group      singleflight.Group

	now func() time.Time
}

// NewRedisFeedCache creates a Redis-backed feed cache.
func NewRedisFeedCache(fetcher Fetcher, rdb *redis.Client, windowDays int, ttl time.Duration) *RedisFeedCache {
	if windowDays <= 0 {
		windowDays = 5
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisFeedCache{
		fetcher:    fetcher,
		rdb:        rdb,
		ttl:        ttl,
		windowDays: windowDays,
		now:        time.Now,
	}
}

func feedKey(w Window) string { return "neo:feed:" + w.Key() }

// Current returns the records for the current window, consulting Redis before
// the upstream provider.
func (c *RedisFeedCache) Current(ctx context.Context) (Window, []TelemetryRecord, error) {
	w := CurrentWindow(c.windowDays, c.now())

	if records, ok := c.lookup(ctx, w); ok {
		return w, records, nil
	}

	v, err, _ := c.group.Do(w.Key(), func() (any, error) {
		if records, ok := c.lookup(ctx, w); ok {
			return records, nil
		}

		records, err := c.fetcher.FetchWindow(ctx, w)
		if err != nil {
			return nil, err
		}
		SortByApproach(records)

		payload, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("marshal feed entry: %w", err)
		}
		// A write failure leaves the fetch result usable; the next miss
		// simply refetches.
		_ = c.rdb.Set(ctx, feedKey(w), payload, c.ttl).Err()

		return records, nil
	})
	if err != nil {
		return w, nil, err
	}
	return w, v.([]TelemetryRecord), nil
}

func (c *RedisFeedCache) lookup(ctx context.Context, w Window) ([]TelemetryRecord, bool) {
	payload, err := c.rdb.Get(ctx, feedKey(w)).Bytes()
	if err != nil {
		// redis.Nil and an unreachable cache are both just misses.
		return nil, false
	}

	var records []TelemetryRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, false
	}
	return records, true
}
