package neo

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Feed provides the telemetry for the current sliding window. Implementations
// own their own caching; callers treat a returned error as "no data this
// round" and retry through their own cadence.
type Feed interface {
	Current(ctx context.Context) (Window, []TelemetryRecord, error)
}

type cacheEntry struct {
	records   []TelemetryRecord
	fetchedAt time.Time
}

// FeedCache is an in-memory TTL cache in front of an upstream Fetcher,
// keyed by the fetch window. Concurrent callers for the same uncached key
// share a single upstream request.
type FeedCache struct {
	fetcher    Fetcher
	ttl        time.Duration
	windowDays int

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group

	now func() time.Time
}

// NewFeedCache creates a feed cache over the given fetcher.
func NewFeedCache(fetcher Fetcher, windowDays int, ttl time.Duration) *FeedCache {
	if windowDays <= 0 {
		windowDays = 5
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &FeedCache{
		fetcher:    fetcher,
		ttl:        ttl,
		windowDays: windowDays,
		entries:    make(map[string]cacheEntry),
		now:        time.Now,
	}
}

// Current returns the records for the current window, fetching from upstream
// only when no unexpired entry exists for the window key.
func (c *FeedCache) Current(ctx context.Context) (Window, []TelemetryRecord, error) {
	w := CurrentWindow(c.windowDays, c.now())
	key := w.Key()

	if records, ok := c.lookup(key); ok {
		return w, records, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A caller that waited on the flight may find the entry populated.
		if records, ok := c.lookup(key); ok {
			return records, nil
		}

		records, err := c.fetcher.FetchWindow(ctx, w)
		if err != nil {
			return nil, err
		}
		SortByApproach(records)

		c.mu.Lock()
		for k, e := range c.entries {
			if c.now().Sub(e.fetchedAt) >= c.ttl {
				delete(c.entries, k)
			}
		}
		c.entries[key] = cacheEntry{records: records, fetchedAt: c.now()}
		c.mu.Unlock()

		return records, nil
	})
	if err != nil {
		return w, nil, err
	}
	return w, v.([]TelemetryRecord), nil
}

func (c *FeedCache) lookup(key string) ([]TelemetryRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return entry.records, true
}
