package weather

import (
	"errors"
	"fmt"
)

// Upstream sub-call identities carried by FetchError and used as metric labels.
const (
	EndpointCurrent  = "current"
	EndpointStats    = "stats"
	EndpointForecast = "forecast"
	EndpointGeocode  = "geocode"
)

// ErrNoMatch is returned by ByCity when the geocoder finds zero candidates.
var ErrNoMatch = errors.New("no matching location found")

// FetchError marks a failed upstream sub-call and names which one failed.
// Any single failure fails the whole aggregation; no partial report is built.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
