package risk_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cosmicwatch/neo-sentinel/pkg/neo"
	"github.com/cosmicwatch/neo-sentinel/pkg/risk"
)

func record(minKm, maxKm float64, hazardous bool, missKm float64) *neo.TelemetryRecord {
	return &neo.TelemetryRecord{
		ID:            "test",
		Name:          "Test Object",
		DiameterMinKm: minKm,
		DiameterMaxKm: maxKm,
		Hazardous:     hazardous,
		Approaches: []neo.ApproachEvent{
			{
				Date:                time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
				MissDistanceKm:      missKm,
				RelativeVelocityKph: 50_000,
			},
		},
	}
}

func TestScore_SmallDistantObject(t *testing.T) {
	// 0.068 km average diameter -> 1.02 size points, <10M km -> 5 distance
	// points, not hazardous.
	got := risk.Score(record(0.042, 0.094, false, 6_730_000))
	assert.Equal(t, 6, got.Score)
	assert.Equal(t, risk.BandLow, got.Band)
}

func TestScore_HazardousObject(t *testing.T) {
	// 50 hazard points + min(0.99*15, 30) = 14.85 size points, distance
	// beyond every proximity band.
	got := risk.Score(record(0.61, 1.37, true, 47_800_000))
	assert.Equal(t, 65, got.Score)
	assert.Equal(t, risk.BandHigh, got.Band)
}

func TestScore_Deterministic(t *testing.T) {
	rec := record(0.5, 1.5, true, 900_000)
	first := risk.Score(rec)
	second := risk.Score(rec)
	assert.Equal(t, first, second)
}

func TestScore_Bounds(t *testing.T) {
	cases := []struct {
		name string
		rec  *neo.TelemetryRecord
	}{
		{"zero object", record(0, 0, false, 100_000_000)},
		{"maximal object", record(50, 80, true, 10_000)},
		{"huge close hazard", record(10, 20, true, 500_000)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := risk.Score(tc.rec)
			assert.GreaterOrEqual(t, got.Score, 0)
			assert.LessOrEqual(t, got.Score, 100)
		})
	}
}

func TestScore_DistanceBands(t *testing.T) {
	cases := []struct {
		missKm float64
		want   int
	}{
		{900_000, 20},
		{4_000_000, 10},
		{9_000_000, 5},
		{20_000_000, 0},
	}
	for _, tc := range cases {
		got := risk.Score(record(0, 0, false, tc.missKm))
		assert.Equal(t, tc.want, got.Score, "miss distance %.0f km", tc.missKm)
	}
}

func TestScore_Banding(t *testing.T) {
	// Hazard + size + closest band: 50 + 30 + 20 = 100.
	critical := risk.Score(record(4, 4, true, 500_000))
	assert.Equal(t, 100, critical.Score)
	assert.Equal(t, risk.BandCritical, critical.Band)

	// Size + closest band: 30 + 20 = 50, the HIGH boundary.
	high := risk.Score(record(4, 4, false, 500_000))
	assert.Equal(t, 50, high.Score)
	assert.Equal(t, risk.BandHigh, high.Band)

	// Closest band alone: 20, the MEDIUM boundary.
	medium := risk.Score(record(0, 0, false, 500_000))
	assert.Equal(t, 20, medium.Score)
	assert.Equal(t, risk.BandMedium, medium.Band)
}

func TestScore_UsesNearestApproach(t *testing.T) {
	rec := record(0, 0, false, 20_000_000)
	// An earlier approach much closer than the first listed one.
	rec.Approaches = append(rec.Approaches, neo.ApproachEvent{
		Date:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		MissDistanceKm: 900_000,
	})

	got := risk.Score(rec)
	assert.Equal(t, 20, got.Score)
}
