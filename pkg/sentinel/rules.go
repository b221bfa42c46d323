package sentinel

import (
	"github.com/cosmicwatch/neo-sentinel/pkg/alerts"
	"github.com/cosmicwatch/neo-sentinel/pkg/neo"
)

// Thresholds are the operator-defined trigger limits.
type Thresholds struct {
	// DistanceKm triggers proximity and velocity rules for approaches
	// closer than this.
	DistanceKm float64
	// SizeM is the minimum upper diameter estimate, in meters, for the
	// proximity rule.
	SizeM float64
	// VelocityKph is the minimum relative velocity for the high-velocity
	// rule.
	VelocityKph float64
}

// DefaultThresholds mirror the operator defaults: 5M km, 100 m, 50k km/h.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DistanceKm:  5_000_000,
		SizeM:       100,
		VelocityKph: 50_000,
	}
}

// Evaluate applies the trigger rules in precedence order and returns the
// reason of the first rule that matches:
//
//  1. official hazard classification
//  2. proximity combined with size
//  3. high velocity combined with proximity
func (t Thresholds) Evaluate(record *neo.TelemetryRecord) (string, bool) {
	approach := record.NearestApproach()

	switch {
	case record.Hazardous:
		return alerts.ReasonOfficialHazard, true
	case approach.MissDistanceKm < t.DistanceKm && record.DiameterMaxM() > t.SizeM:
		return alerts.ReasonProximity, true
	case approach.RelativeVelocityKph > t.VelocityKph && approach.MissDistanceKm < t.DistanceKm:
		return alerts.ReasonHighVelocity, true
	}
	return "", false
}
