package neo

import (
	"context"
	"time"
)

// MockRecords returns canned telemetry for development and testing when the
// upstream provider is unavailable or rate limited.
func MockRecords() []TelemetryRecord {
	return []TelemetryRecord{
		{
			ID:            "2000433",
			Name:          "(433) Eros",
			DiameterMinKm: 16.84,
			DiameterMaxKm: 17.96,
			Hazardous:     false,
			Approaches: []ApproachEvent{
				{
					Date:                time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC),
					MissDistanceKm:      37_400_000,
					RelativeVelocityKph: 88_200,
				},
			},
		},
		{
			ID:            "2023DW",
			Name:          "2023 DW",
			DiameterMinKm: 0.042,
			DiameterMaxKm: 0.094,
			Hazardous:     false,
			Approaches: []ApproachEvent{
				{
					Date:                time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
					MissDistanceKm:      6_730_000,
					RelativeVelocityKph: 65_880,
				},
			},
		},
		{
			ID:            "2022AP7",
			Name:          "2022 AP7",
			DiameterMinKm: 0.61,
			DiameterMaxKm: 1.37,
			Hazardous:     true,
			Approaches: []ApproachEvent{
				{
					Date:                time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
					MissDistanceKm:      47_800_000,
					RelativeVelocityKph: 79_560,
				},
			},
		},
	}
}

// MockFeed is a Feed that serves MockRecords without touching the network.
type MockFeed struct {
	WindowDays int
}

func (m *MockFeed) Current(_ context.Context) (Window, []TelemetryRecord, error) {
	days := m.WindowDays
	if days <= 0 {
		days = 5
	}
	w := CurrentWindow(days, time.Now())
	records := MockRecords()
	SortByApproach(records)
	return w, records, nil
}
