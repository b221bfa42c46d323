package storage

import (
	"context"

	"github.com/cosmicwatch/neo-sentinel/pkg/alerts"
)

// Store defines the persistence layer for alert events.
type Store interface {
	// SaveAlert persists a single alert event.
	SaveAlert(ctx context.Context, event *alerts.Event) error

	// ListAlerts returns persisted alerts, newest first, up to limit.
	// A limit of zero means no limit.
	ListAlerts(ctx context.Context, limit int) ([]alerts.Event, error)

	// MarkAlertRead flags a persisted alert as read.
	MarkAlertRead(ctx context.Context, id string) error

	// CountUnread returns the number of unread alerts.
	CountUnread(ctx context.Context) (int64, error)

	// Close releases resources.
	Close() error
}
