package neo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// DefaultBaseURL is the public NeoWs feed endpoint.
const DefaultBaseURL = "https://api.nasa.gov/neo/rest/v1"

// Fetcher retrieves raw telemetry for a date window.
type Fetcher interface {
	FetchWindow(ctx context.Context, w Window) ([]TelemetryRecord, error)
}

// Client talks to the upstream NeoWs feed API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates an upstream feed client. The timeout bounds the full
// request round trip so a stalled call cannot delay a sentinel tick
// indefinitely.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchWindow issues one feed request for the window and flattens the
// provider's per-date grouping into a single ordered sequence.
func (c *Client) FetchWindow(ctx context.Context, w Window) ([]TelemetryRecord, error) {
	q := url.Values{}
	q.Set("start_date", w.Start.Format(dateLayout))
	q.Set("end_date", w.End.Format(dateLayout))
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/feed?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Kind: KindNetworkUnreachable, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &UpstreamError{Kind: KindRateLimited, Status: resp.StatusCode, Err: fmt.Errorf("rate limit exceeded")}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &UpstreamError{Kind: KindUnauthorized, Status: resp.StatusCode, Err: fmt.Errorf("api key rejected")}
	case resp.StatusCode != http.StatusOK:
		return nil, &UpstreamError{Kind: KindMalformed, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, &UpstreamError{Kind: KindMalformed, Status: resp.StatusCode, Err: fmt.Errorf("decode feed: %w", err)}
	}

	records, err := feed.flatten()
	if err != nil {
		return nil, &UpstreamError{Kind: KindMalformed, Status: resp.StatusCode, Err: err}
	}
	return records, nil
}

// feedResponse mirrors the NeoWs feed schema: a per-date map of raw objects.
type feedResponse struct {
	ElementCount     int                    `json:"element_count"`
	NearEarthObjects map[string][]rawObject `json:"near_earth_objects"`
}

type rawObject struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Hazardous         bool   `json:"is_potentially_hazardous_asteroid"`
	EstimatedDiameter struct {
		Kilometers struct {
			Min float64 `json:"estimated_diameter_min"`
			Max float64 `json:"estimated_diameter_max"`
		} `json:"kilometers"`
	} `json:"estimated_diameter"`
	CloseApproachData []rawApproach `json:"close_approach_data"`
}

type rawApproach struct {
	Date             string `json:"close_approach_date"`
	RelativeVelocity struct {
		KilometersPerHour string `json:"kilometers_per_hour"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Kilometers string `json:"kilometers"`
	} `json:"miss_distance"`
}

func (f *feedResponse) flatten() ([]TelemetryRecord, error) {
	if f.NearEarthObjects == nil {
		return nil, fmt.Errorf("missing near_earth_objects")
	}

	var records []TelemetryRecord
	for date, objects := range f.NearEarthObjects {
		for _, obj := range objects {
			rec, err := obj.toRecord()
			if err != nil {
				return nil, fmt.Errorf("object on %s: %w", date, err)
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

func (o *rawObject) toRecord() (TelemetryRecord, error) {
	if o.ID == "" {
		return TelemetryRecord{}, fmt.Errorf("missing object id")
	}
	if len(o.CloseApproachData) == 0 {
		return TelemetryRecord{}, fmt.Errorf("object %s: no close approach data", o.ID)
	}

	rec := TelemetryRecord{
		ID:            o.ID,
		Name:          o.Name,
		DiameterMinKm: o.EstimatedDiameter.Kilometers.Min,
		DiameterMaxKm: o.EstimatedDiameter.Kilometers.Max,
		Hazardous:     o.Hazardous,
	}

	for _, a := range o.CloseApproachData {
		date, err := time.Parse(dateLayout, a.Date)
		if err != nil {
			return TelemetryRecord{}, fmt.Errorf("object %s: approach date %q: %w", o.ID, a.Date, err)
		}
		dist, err := strconv.ParseFloat(a.MissDistance.Kilometers, 64)
		if err != nil {
			return TelemetryRecord{}, fmt.Errorf("object %s: miss distance %q: %w", o.ID, a.MissDistance.Kilometers, err)
		}
		vel, err := strconv.ParseFloat(a.RelativeVelocity.KilometersPerHour, 64)
		if err != nil {
			return TelemetryRecord{}, fmt.Errorf("object %s: velocity %q: %w", o.ID, a.RelativeVelocity.KilometersPerHour, err)
		}
		rec.Approaches = append(rec.Approaches, ApproachEvent{
			Date:                date,
			MissDistanceKm:      dist,
			RelativeVelocityKph: vel,
		})
	}
	return rec, nil
}

// SortByApproach orders records closest approach first, with the object id
// as a deterministic tiebreak.
func SortByApproach(records []TelemetryRecord) {
	sort.Slice(records, func(i, j int) bool {
		di, dj := records[i].NearestApproach().MissDistanceKm, records[j].NearestApproach().MissDistanceKm
		if di != dj {
			return di < dj
		}
		return records[i].ID < records[j].ID
	})
}
