// Package location resolves a physical location from ambiguous inputs: a
// device-reported geolocation fix, then an IP-based lookup, then nothing.
package location

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skycastlab/weather-dashboard/internal/observability"
	"github.com/skycastlab/weather-dashboard/internal/weather"
)

// Method names which resolution strategy produced the coordinates.
type Method string

const (
	MethodGPS Method = "GPS"
	MethodIP  Method = "IP"
)

// Resolved is a successful resolution. Label is a human-readable place name,
// only populated by the IP strategy.
type Resolved struct {
	Coordinates weather.Coordinates `json:"coordinates"`
	Method      Method              `json:"method"`
	Label       string              `json:"label,omitempty"`
}

// PositionSource yields a device-precise position or one of the device-level
// errors (ErrInsecureContext, ErrPermissionDenied, ErrPositionUnavailable,
// ErrTimeout).
type PositionSource interface {
	Position(ctx context.Context) (weather.Coordinates, error)
}

// IPLocation is a coarse position derived from the caller's IP address.
type IPLocation struct {
	Coordinates weather.Coordinates
	City        string
	CountryCode string
}

// IPLocator looks up an approximate location from the caller's IP address.
type IPLocator interface {
	Locate(ctx context.Context) (IPLocation, error)
}

// Resolver runs the fixed strategy chain: device position, then IP lookup.
// First success wins; neither step is retried. When both fail the call fails
// with ErrUnavailable and the caller decides what to do (the dashboard falls
// back to a default city).
type Resolver struct {
	ip      IPLocator
	wait    time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewResolver creates a Resolver. wait bounds how long a device position
// attempt may take before the IP fallback kicks in.
func NewResolver(ip IPLocator, wait time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Resolver {
	if wait <= 0 {
		wait = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &Resolver{ip: ip, wait: wait, metrics: metrics, logger: logger}
}

// Resolve tries the given device source first, then the IP lookup. The device
// source is request-scoped and passed per call; the IP locator is shared.
func (r *Resolver) Resolve(ctx context.Context, device PositionSource) (Resolved, error) {
	deviceCtx, cancel := context.WithTimeout(ctx, r.wait)
	coords, deviceErr := device.Position(deviceCtx)
	cancel()

	if deviceErr == nil {
		r.metrics.ResolveOutcomes.WithLabelValues(string(MethodGPS), observability.OutcomeSuccess).Inc()
		return Resolved{Coordinates: coords, Method: MethodGPS}, nil
	}
	r.logger.Info("device position failed; falling back to IP lookup", "error", deviceErr)

	ipLoc, ipErr := r.ip.Locate(ctx)
	if ipErr == nil {
		r.metrics.ResolveOutcomes.WithLabelValues(string(MethodIP), observability.OutcomeSuccess).Inc()
		return Resolved{
			Coordinates: ipLoc.Coordinates,
			Method:      MethodIP,
			Label:       fmt.Sprintf("%s, %s", ipLoc.City, ipLoc.CountryCode),
		}, nil
	}

	r.metrics.ResolveOutcomes.WithLabelValues("none", observability.OutcomeError).Inc()
	r.logger.Warn("location resolution exhausted", "device_error", deviceErr, "ip_error", ipErr)
	// Both attempt errors ride along for diagnostics only.
	return Resolved{}, fmt.Errorf("%w (device: %v; ip: %v)", ErrUnavailable, deviceErr, ipErr)
}

// ReportedPosition adapts a client-reported geolocation fix to a
// PositionSource. Secure reflects whether the reporting request arrived over
// TLS or loopback; an insecure context is rejected before the fix is read so
// callers can special-case the advice message. Denied means the device user
// refused the permission prompt.
type ReportedPosition struct {
	Latitude  *float64
	Longitude *float64
	Secure    bool
	Denied    bool
}

func (p ReportedPosition) Position(ctx context.Context) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, ErrTimeout
	}
	if !p.Secure {
		return weather.Coordinates{}, ErrInsecureContext
	}
	if p.Denied {
		return weather.Coordinates{}, ErrPermissionDenied
	}
	if p.Latitude == nil || p.Longitude == nil {
		return weather.Coordinates{}, ErrPositionUnavailable
	}
	return weather.Coordinates{Latitude: *p.Latitude, Longitude: *p.Longitude}, nil
}
