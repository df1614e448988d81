package location

import "errors"

// Failure modes of the resolution chain. Device-level errors never escape
// Resolve on their own; they either trigger the IP fallback or end up inside
// ErrUnavailable for diagnostics.
var (
	ErrInsecureContext     = errors.New("geolocation requires a secure context (HTTPS or localhost)")
	ErrPermissionDenied    = errors.New("location access denied by user")
	ErrPositionUnavailable = errors.New("position information is unavailable")
	ErrTimeout             = errors.New("position request timed out")
	ErrInvalidLocationData = errors.New("invalid location data from IP service")
	ErrUnavailable         = errors.New("unable to detect location automatically; search for your city instead")
)
