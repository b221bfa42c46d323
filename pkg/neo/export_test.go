package neo

import "time"

// SetNow overrides the cache clock for TTL tests.
func (c *FeedCache) SetNow(now func() time.Time) { c.now = now }
