package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skycastlab/weather-dashboard/internal/common"
	"github.com/skycastlab/weather-dashboard/internal/observability"
	"github.com/skycastlab/weather-dashboard/internal/weather"
)

const ipgeoEndpoint = "ipgeo"

// IPClient implements IPLocator against an ipapi.co-style JSON endpoint.
type IPClient struct {
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewIPClient creates an IPClient for the given base URL (no trailing slash).
func NewIPClient(httpClient *http.Client, baseURL string, metrics *observability.Metrics, logger *slog.Logger) *IPClient {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &IPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "ipgeo",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
		metrics: metrics,
		logger:  logger,
	}
}

// Locate looks up the caller's approximate position. Missing or malformed
// coordinates in the response surface as ErrInvalidLocationData.
func (c *IPClient) Locate(ctx context.Context) (IPLocation, error) {
	resp, err := common.DoWithBreaker(ctx, c.httpClient, c.circuit, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, c.baseURL+"/json/", nil)
	})
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(ipgeoEndpoint, observability.OutcomeError).Inc()
		return IPLocation{}, fmt.Errorf("ip location service unavailable: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.UpstreamRequests.WithLabelValues(ipgeoEndpoint, observability.OutcomeSuccess).Inc()

	var payload struct {
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		City        string   `json:"city"`
		CountryCode string   `json:"country_code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return IPLocation{}, fmt.Errorf("%w: %v", ErrInvalidLocationData, err)
	}
	if payload.Latitude == nil || payload.Longitude == nil {
		return IPLocation{}, ErrInvalidLocationData
	}

	city := payload.City
	if city == "" {
		city = "Unknown"
	}
	country := payload.CountryCode
	if country == "" {
		country = "Unknown"
	}

	return IPLocation{
		Coordinates: weather.Coordinates{
			Latitude:  *payload.Latitude,
			Longitude: *payload.Longitude,
		},
		City:        city,
		CountryCode: country,
	}, nil
}
