package sentinel

import "time"

// SetNow overrides the loop clock for dedup expiry tests.
func (s *Sentinel) SetNow(now func() time.Time) { s.now = now }
