package neo

import "fmt"

// UpstreamKind classifies an upstream feed failure.
type UpstreamKind string

const (
	// KindRateLimited means the provider rejected the call with HTTP 429.
	KindRateLimited UpstreamKind = "rate_limited"
	// KindUnauthorized means the API key was rejected (HTTP 401/403).
	KindUnauthorized UpstreamKind = "unauthorized"
	// KindNetworkUnreachable means the provider could not be reached,
	// including request timeouts.
	KindNetworkUnreachable UpstreamKind = "network_unreachable"
	// KindMalformed means the provider responded but the payload failed
	// schema validation.
	KindMalformed UpstreamKind = "malformed"
)

// UpstreamError is a classified failure from the upstream feed provider.
// The feed cache never retries internally; callers decide whether to retry
// through their own cadence.
type UpstreamError struct {
	Kind   UpstreamKind
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream feed: %s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream feed: %s: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
