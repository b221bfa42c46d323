package alerts

import (
	"context"
	"log/slog"
	"sync"
)

// Result records the per-channel outcome of one dispatch. A nil error means
// the channel accepted the event.
type Result struct {
	Outcomes map[string]error
}

// Delivered reports whether the named channel accepted the event.
func (r Result) Delivered(name string) bool {
	err, ok := r.Outcomes[name]
	return ok && err == nil
}

// Failed returns the names of channels that rejected the event.
func (r Result) Failed() []string {
	var failed []string
	for name, err := range r.Outcomes {
		if err != nil {
			failed = append(failed, name)
		}
	}
	return failed
}

// Dispatcher fans one event out to all configured channels. Channels are
// invoked concurrently and failures are isolated: one channel's error never
// prevents the others from being attempted, and the caller never retries.
type Dispatcher struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(notifiers []Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, logger: logger}
}

// Dispatch delivers the event to every channel and collects per-channel
// outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) Result {
	result := Result{Outcomes: make(map[string]error, len(d.notifiers))}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, n := range d.notifiers {
		wg.Add(1)
		go func(n Notifier) {
			defer wg.Done()
			err := n.Notify(ctx, event)
			if err != nil {
				d.logger.Error("alert channel failed",
					"channel", n.Name(),
					"object_id", event.ObjectID,
					"error", err,
				)
			}
			mu.Lock()
			result.Outcomes[n.Name()] = err
			mu.Unlock()
		}(n)
	}
	wg.Wait()

	return result
}
