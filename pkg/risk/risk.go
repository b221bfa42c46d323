// Package risk scores near-Earth objects for collision risk. The score is a
// heuristic banding function, not an orbital-mechanics simulation.
package risk

import (
	"math"

	"github.com/cosmicwatch/neo-sentinel/pkg/neo"
)

// Band is a coarse severity label derived from the numeric score. It is
// presentational metadata only; the sentinel's trigger rules do not consult it.
type Band string

const (
	BandLow      Band = "LOW"
	BandMedium   Band = "MEDIUM"
	BandHigh     Band = "HIGH"
	BandCritical Band = "CRITICAL"
)

// Assessment is the derived risk for one telemetry record.
type Assessment struct {
	Score int  `json:"score"`
	Band  Band `json:"band"`
}

// Score maps a telemetry record to a bounded risk score:
//
//   - 50 points for an official hazard classification
//   - up to 30 points for size (average diameter in km, 15 points per km)
//   - up to 20 points for proximity of the nearest approach
//
// The sum is clamped to [0,100] and rounded. Pure and deterministic.
func Score(record *neo.TelemetryRecord) Assessment {
	score := 0.0

	if record.Hazardous {
		score += 50
	}

	score += math.Min(record.AvgDiameterKm()*15, 30)

	switch dist := record.NearestApproach().MissDistanceKm; {
	case dist < 1_000_000:
		score += 20
	case dist < 5_000_000:
		score += 10
	case dist < 10_000_000:
		score += 5
	}

	n := int(math.Round(math.Min(math.Max(score, 0), 100)))
	return Assessment{Score: n, Band: bandFor(n)}
}

func bandFor(score int) Band {
	switch {
	case score >= 80:
		return BandCritical
	case score >= 50:
		return BandHigh
	case score >= 20:
		return BandMedium
	default:
		return BandLow
	}
}
