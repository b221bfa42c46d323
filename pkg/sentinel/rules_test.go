package sentinel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cosmicwatch/neo-sentinel/pkg/alerts"
	"github.com/cosmicwatch/neo-sentinel/pkg/sentinel"
)

func TestThresholds_Evaluate_Boundaries(t *testing.T) {
	thresholds := sentinel.DefaultThresholds()

	// Exactly at the limits: strict comparisons, no trigger.
	exact := object("exact", false, 5_000_000, 0.1, 50_000)
	_, triggered := thresholds.Evaluate(&exact)
	assert.False(t, triggered)

	// Just inside the proximity rule.
	near := object("near", false, 4_999_999, 0.11, 10_000)
	reason, triggered := thresholds.Evaluate(&near)
	assert.True(t, triggered)
	assert.Equal(t, alerts.ReasonProximity, reason)
}

func TestThresholds_Evaluate_VelocityNeedsProximity(t *testing.T) {
	thresholds := sentinel.DefaultThresholds()

	// Fast but far away: no trigger.
	fastFar := object("fast-far", false, 40_000_000, 0.05, 90_000)
	_, triggered := thresholds.Evaluate(&fastFar)
	assert.False(t, triggered)
}

func TestDefaultThresholds(t *testing.T) {
	got := sentinel.DefaultThresholds()
	assert.InDelta(t, 5_000_000, got.DistanceKm, 0.001)
	assert.InDelta(t, 100, got.SizeM, 0.001)
	assert.InDelta(t, 50_000, got.VelocityKph, 0.001)
}
