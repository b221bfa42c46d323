package alerts

import (
	"context"
	"fmt"
)

// EventWriter persists alert events. Implemented by the storage layer.
type EventWriter interface {
	SaveAlert(ctx context.Context, event *Event) error
}

// StoreNotifier writes alert events to durable storage.
type StoreNotifier struct {
	store EventWriter
}

// NewStoreNotifier creates a persistence channel over the given store.
func NewStoreNotifier(store EventWriter) *StoreNotifier {
	return &StoreNotifier{store: store}
}

func (s *StoreNotifier) Name() string { return "store" }

func (s *StoreNotifier) Notify(ctx context.Context, event Event) error {
	if err := s.store.SaveAlert(ctx, &event); err != nil {
		return fmt.Errorf("persist alert: %w", err)
	}
	return nil
}
