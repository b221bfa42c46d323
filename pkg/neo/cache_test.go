package neo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicwatch/neo-sentinel/pkg/neo"
)

type countingFetcher struct {
	mu      sync.Mutex
	calls   int
	delay   time.Duration
	err     error
	records []neo.TelemetryRecord
}

func (f *countingFetcher) FetchWindow(_ context.Context, _ neo.Window) ([]neo.TelemetryRecord, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]neo.TelemetryRecord(nil), f.records...), nil
}

func (f *countingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestFeedCache_TTL(t *testing.T) {
	fetcher := &countingFetcher{records: neo.MockRecords()}
	cache := neo.NewFeedCache(fetcher, 5, time.Hour)

	base := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)
	now := base
	cache.SetNow(func() time.Time { return now })

	_, records, err := cache.Current(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, 1, fetcher.callCount())

	// One second before expiry: served from cache.
	now = base.Add(time.Hour - time.Second)
	_, _, err = cache.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())

	// One second past expiry: upstream is contacted again.
	now = base.Add(time.Hour + time.Second)
	_, _, err = cache.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestFeedCache_SingleFlight(t *testing.T) {
	fetcher := &countingFetcher{records: neo.MockRecords(), delay: 100 * time.Millisecond}
	cache := neo.NewFeedCache(fetcher, 5, time.Hour)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, records, err := cache.Current(context.Background())
			assert.NoError(t, err)
			assert.Len(t, records, 3)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fetcher.callCount(), "concurrent callers must share one upstream request")
}

func TestFeedCache_ErrorNotCached(t *testing.T) {
	fetcher := &countingFetcher{err: &neo.UpstreamError{Kind: neo.KindRateLimited}}
	cache := neo.NewFeedCache(fetcher, 5, time.Hour)

	_, _, err := cache.Current(context.Background())
	require.Error(t, err)

	_, _, err = cache.Current(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, fetcher.callCount(), "failures must not populate the cache")
}

func TestFeedCache_SortsClosestFirst(t *testing.T) {
	fetcher := &countingFetcher{records: neo.MockRecords()}
	cache := neo.NewFeedCache(fetcher, 5, time.Hour)

	_, records, err := cache.Current(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i := 1; i < len(records); i++ {
		assert.LessOrEqual(t,
			records[i-1].NearestApproach().MissDistanceKm,
			records[i].NearestApproach().MissDistanceKm,
		)
	}
}

func TestWindowKey(t *testing.T) {
	w := neo.CurrentWindow(5, time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC))
	assert.Equal(t, "2026-08-26:2026-08-31", w.Key())
}
