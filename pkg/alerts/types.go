package alerts

import (
	"context"
	"time"
)

// EventType indicates the severity of an alert event.
type EventType string

const (
	TypeCritical EventType = "CRITICAL"
	TypeWarning  EventType = "WARNING"
	TypeInfo     EventType = "INFO"
)

// Trigger reasons, in rule-precedence order.
const (
	ReasonOfficialHazard = "OFFICIAL_HAZARD"
	ReasonProximity      = "PROXIMITY"
	ReasonHighVelocity   = "HIGH_VELOCITY"
)

// Event is a threshold-breach notification for one tracked object. Events are
// immutable once dispatched.
type Event struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	Reason         string    `json:"reason"`
	ObjectID       string    `json:"object_id"`
	ObjectName     string    `json:"object_name"`
	Message        string    `json:"message"`
	MissDistanceKm float64   `json:"miss_distance_km"`
	DiameterMaxM   float64   `json:"diameter_max_m"`
	VelocityKph    float64   `json:"velocity_kph"`
	RiskScore      int       `json:"risk_score"`
	TriggeredAt    time.Time `json:"triggered_at"`
	Read           bool      `json:"read"`
}

// Notifier delivers alert events to one channel. Implementations must be safe
// for concurrent use; delivery is best effort and callers never retry.
type Notifier interface {
	// Name returns the channel identifier.
	Name() string

	// Notify delivers a single event.
	Notify(ctx context.Context, event Event) error
}
