package neo

import "time"

const dateLayout = "2006-01-02"

// ApproachEvent is a single predicted close approach of a tracked object.
type ApproachEvent struct {
	Date                time.Time `json:"date"`
	MissDistanceKm      float64   `json:"miss_distance_km"`
	RelativeVelocityKph float64   `json:"relative_velocity_kph"`
}

// TelemetryRecord is one tracked near-Earth object as reported by the
// upstream feed. Records are immutable once fetched; a new window fetch
// replaces them wholesale. Every record carries at least one approach event.
type TelemetryRecord struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	DiameterMinKm float64         `json:"diameter_min_km"`
	DiameterMaxKm float64         `json:"diameter_max_km"`
	Hazardous     bool            `json:"hazardous"`
	Approaches    []ApproachEvent `json:"approaches"`
}

// NearestApproach returns the chronologically first approach event.
// Scoring and alerting always use this event.
func (r *TelemetryRecord) NearestApproach() ApproachEvent {
	nearest := r.Approaches[0]
	for _, a := range r.Approaches[1:] {
		if a.Date.Before(nearest.Date) {
			nearest = a
		}
	}
	return nearest
}

// AvgDiameterKm returns the midpoint of the estimated diameter range.
func (r *TelemetryRecord) AvgDiameterKm() float64 {
	return (r.DiameterMinKm + r.DiameterMaxKm) / 2
}

// DiameterMaxM returns the upper diameter estimate in meters.
func (r *TelemetryRecord) DiameterMaxM() float64 {
	return r.DiameterMaxKm * 1000
}

// Window is the sliding date range a feed fetch covers.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CurrentWindow computes the window [now - days, now] truncated to dates.
func CurrentWindow(days int, now time.Time) Window {
	end := now.UTC().Truncate(24 * time.Hour)
	return Window{Start: end.AddDate(0, 0, -days), End: end}
}

// Key derives the cache key for this window.
func (w Window) Key() string {
	return w.Start.Format(dateLayout) + ":" + w.End.Format(dateLayout)
}
