// Package sentinel runs the recurring scan that turns telemetry into alerts.
package sentinel

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cosmicwatch/neo-sentinel/pkg/alerts"
	"github.com/cosmicwatch/neo-sentinel/pkg/neo"
	"github.com/cosmicwatch/neo-sentinel/pkg/risk"
)

// Config controls the sentinel's cadence and trigger limits.
type Config struct {
	// Interval between scans. Fixed, not adaptive to upstream failures.
	Interval time.Duration
	// DedupTTL bounds how long a (object, window) pair suppresses repeat
	// alerts. Entries older than this are compacted, so an object that
	// re-enters a threatening state after the window rolls alerts again.
	DedupTTL time.Duration
	// Thresholds are the trigger limits.
	Thresholds Thresholds
}

// Status is a consistent snapshot of the loop for external inspection.
type Status struct {
	Running          bool      `json:"running"`
	LastTick         time.Time `json:"last_tick,omitzero"`
	LastError        string    `json:"last_error,omitempty"`
	TrackedObjects   int       `json:"tracked_objects"`
	DedupEntries     int       `json:"dedup_entries"`
	TicksCompleted   uint64    `json:"ticks_completed"`
	TicksSkipped     uint64    `json:"ticks_skipped"`
	AlertsDispatched uint64    `json:"alerts_dispatched"`
}

type dedupKey struct {
	objectID  string
	windowKey string
}

// Sentinel is the recurring monitoring loop: each tick pulls the current
// window from the feed, evaluates trigger rules per record, deduplicates,
// and dispatches alerts for new breaches. Ticks are serialized; a tick still
// running when the next interval elapses defers it to the following boundary.
type Sentinel struct {
	feed       neo.Feed
	dispatcher *alerts.Dispatcher
	cfg        Config
	logger     *slog.Logger

	tickMu sync.Mutex

	stateMu sync.RWMutex
	seen    map[dedupKey]time.Time
	status  Status

	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool

	now func() time.Time
}

// New creates a sentinel. It does not start scanning until Start is called.
func New(feed neo.Feed, dispatcher *alerts.Dispatcher, cfg Config, logger *slog.Logger) *Sentinel {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.DedupTTL <= 0 {
		cfg.DedupTTL = 15 * 24 * time.Hour
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}
	return &Sentinel{
		feed:       feed,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
		seen:       make(map[dedupKey]time.Time),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		now:        time.Now,
	}
}

// Start launches the recurring scan. Calling Start on a running sentinel is
// a no-op.
func (s *Sentinel) Start() {
	s.stateMu.Lock()
	if s.started {
		s.stateMu.Unlock()
		return
	}
	s.started = true
	s.status.Running = true
	s.stateMu.Unlock()

	s.logger.Info("sentinel online", "interval", s.cfg.Interval)
	go s.run()
}

func (s *Sentinel) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			// An upstream failure only skips this tick; the loop never
			// terminates on its own.
			_ = s.Scan(context.Background())
		}
	}
}

// Stop requests a clean shutdown and waits for any in-flight tick to finish.
func (s *Sentinel) Stop() {
	s.stateMu.Lock()
	if !s.started {
		s.stateMu.Unlock()
		return
	}
	s.started = false
	s.stateMu.Unlock()

	close(s.stopCh)
	<-s.doneCh

	// A tick dispatched from the loop holds tickMu; taking it here makes
	// Stop return only after that tick completes.
	s.tickMu.Lock()
	s.tickMu.Unlock()

	s.stateMu.Lock()
	s.status.Running = false
	s.stateMu.Unlock()

	s.logger.Info("sentinel stopped")
}

// Scan executes one tick: fetch, evaluate, deduplicate, dispatch. Safe to
// call concurrently with the recurring loop; ticks never overlap.
func (s *Sentinel) Scan(ctx context.Context) error {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	window, records, err := s.feed.Current(ctx)
	if err != nil {
		kind := "unknown"
		var ue *neo.UpstreamError
		if errors.As(err, &ue) {
			kind = string(ue.Kind)
		}
		s.logger.Warn("scan skipped, upstream unavailable",
			"window", window.Key(),
			"kind", kind,
			"error", err,
		)
		s.stateMu.Lock()
		s.status.LastError = err.Error()
		s.status.TicksSkipped++
		s.stateMu.Unlock()
		return err
	}

	now := s.now()
	s.compact(now)

	dispatched := uint64(0)
	for i := range records {
		record := &records[i]
		key := dedupKey{objectID: record.ID, windowKey: window.Key()}
		if s.alreadySeen(key) {
			continue
		}

		reason, triggered := s.cfg.Thresholds.Evaluate(record)
		if !triggered {
			continue
		}

		event := buildEvent(record, reason, now)
		s.logger.Warn("threat detected",
			"object", record.Name,
			"object_id", record.ID,
			"reason", reason,
			"risk_score", event.RiskScore,
		)

		result := s.dispatcher.Dispatch(ctx, event)
		if failed := result.Failed(); len(failed) > 0 {
			s.logger.Warn("partial alert delivery",
				"object_id", record.ID,
				"failed_channels", failed,
			)
		}

		// Seen after the dispatch attempt, regardless of per-channel
		// outcome; failed channels are not retried.
		s.markSeen(key, now)
		dispatched++
	}

	s.stateMu.Lock()
	s.status.LastTick = now
	s.status.LastError = ""
	s.status.TrackedObjects = len(records)
	s.status.DedupEntries = len(s.seen)
	s.status.TicksCompleted++
	s.status.AlertsDispatched += dispatched
	s.stateMu.Unlock()

	return nil
}

// Status returns a snapshot of the loop state.
func (s *Sentinel) Status() Status {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	status := s.status
	status.DedupEntries = len(s.seen)
	return status
}

func (s *Sentinel) alreadySeen(key dedupKey) bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	_, ok := s.seen[key]
	return ok
}

func (s *Sentinel) markSeen(key dedupKey, now time.Time) {
	s.stateMu.Lock()
	s.seen[key] = now
	s.stateMu.Unlock()
}

// compact drops dedup entries older than the TTL so the set cannot grow
// without bound over long uptimes.
func (s *Sentinel) compact(now time.Time) {
	s.stateMu.Lock()
	for key, at := range s.seen {
		if now.Sub(at) >= s.cfg.DedupTTL {
			delete(s.seen, key)
		}
	}
	s.stateMu.Unlock()
}

func buildEvent(record *neo.TelemetryRecord, reason string, now time.Time) alerts.Event {
	approach := record.NearestApproach()
	assessment := risk.Score(record)
	return alerts.Event{
		ID:             uuid.New().String(),
		Type:           alerts.TypeCritical,
		Reason:         reason,
		ObjectID:       record.ID,
		ObjectName:     record.Name,
		Message:        record.Name + ": " + reason,
		MissDistanceKm: approach.MissDistanceKm,
		DiameterMaxM:   record.DiameterMaxM(),
		VelocityKph:    approach.RelativeVelocityKph,
		RiskScore:      assessment.Score,
		TriggeredAt:    now.UTC(),
	}
}
