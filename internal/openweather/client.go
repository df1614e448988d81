// Package openweather wraps the three OpenWeatherMap endpoints the dashboard
// depends on: current conditions, 5-day/3-hour forecast, and direct geocoding.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skycastlab/weather-dashboard/internal/common"
	"github.com/skycastlab/weather-dashboard/internal/observability"
	"github.com/skycastlab/weather-dashboard/internal/weather"
)

// Client implements weather.Provider against OpenWeatherMap. Each endpoint
// gets its own circuit breaker; a misbehaving forecast endpoint must not trip
// current-conditions calls. Requests are single-shot, never retried.
type Client struct {
	apiKey  string
	baseURL string
	geoURL  string

	httpClient *http.Client
	weatherCB  *gobreaker.CircuitBreaker
	forecastCB *gobreaker.CircuitBreaker
	geoCB      *gobreaker.CircuitBreaker

	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a Client. baseURL covers /weather and /forecast; geoURL
// covers /direct.
func NewClient(httpClient *http.Client, apiKey, baseURL, geoURL string, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		geoURL:     geoURL,
		httpClient: httpClient,
		weatherCB:  newBreaker("openweather-weather"),
		forecastCB: newBreaker("openweather-forecast"),
		geoCB:      newBreaker("openweather-geocode"),
		metrics:    metrics,
		logger:     logger,
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// currentPayload is the /weather response shape. Both the current-conditions
// and the statistics projections decode it.
type currentPayload struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility int `json:"visibility"`
	Coord      struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
}

type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMax float64 `json:"temp_max"`
			TempMin float64 `json:"temp_min"`
		} `json:"main"`
		Weather []struct {
			ID          int    `json:"id"`
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

// CurrentWeather fetches the current-conditions projection of /weather.
func (c *Client) CurrentWeather(ctx context.Context, coords weather.Coordinates) (weather.Observation, error) {
	payload, err := c.fetchCurrent(ctx, coords, weather.EndpointCurrent)
	if err != nil {
		return weather.Observation{}, err
	}
	if len(payload.Weather) == 0 {
		return weather.Observation{}, fmt.Errorf("malformed current weather response: empty weather array")
	}

	w := payload.Weather[0]
	return weather.Observation{
		Name:          payload.Name,
		CountryCode:   payload.Sys.Country,
		TempC:         payload.Main.Temp,
		FeelsLikeC:    payload.Main.FeelsLike,
		ConditionID:   w.ID,
		ConditionMain: w.Main,
		ConditionDesc: w.Description,
		Coordinates: weather.Coordinates{
			Latitude:  payload.Coord.Lat,
			Longitude: payload.Coord.Lon,
		},
	}, nil
}

// CurrentStats fetches the statistics projection of /weather. This is a
// second request to the same resource as CurrentWeather, on purpose.
func (c *Client) CurrentStats(ctx context.Context, coords weather.Coordinates) (weather.StatsReading, error) {
	payload, err := c.fetchCurrent(ctx, coords, weather.EndpointStats)
	if err != nil {
		return weather.StatsReading{}, err
	}

	return weather.StatsReading{
		VisibilityM: payload.Visibility,
		HumidityPct: payload.Main.Humidity,
		WindSpeedMS: payload.Wind.Speed,
		PressureHPa: payload.Main.Pressure,
		Sunrise:     payload.Sys.Sunrise,
		Sunset:      payload.Sys.Sunset,
	}, nil
}

// Forecast fetches the 3-hour forecast list for the coordinates.
func (c *Client) Forecast(ctx context.Context, coords weather.Coordinates) ([]weather.ForecastSample, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	u := fmt.Sprintf("%s/forecast?%s", c.baseURL, c.coordQuery(coords).Encode())
	resp, err := c.do(ctx, c.forecastCB, weather.EndpointForecast, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		s := weather.ForecastSample{
			Timestamp: time.Unix(item.Dt, 0),
			TempMax:   item.Main.TempMax,
			TempMin:   item.Main.TempMin,
			Pop:       item.Pop,
		}
		if len(item.Weather) > 0 {
			s.ConditionID = item.Weather[0].ID
			s.ConditionMain = item.Weather[0].Main
			s.ConditionDesc = item.Weather[0].Description
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// SearchLocation resolves a free-text place name to up to five candidates via
// /geo/1.0/direct. An empty slice means no match and is not an error.
func (c *Client) SearchLocation(ctx context.Context, query string) ([]weather.Place, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", "5")
	values.Set("appid", c.apiKey)

	u := fmt.Sprintf("%s/direct?%s", c.geoURL, values.Encode())
	resp, err := c.do(ctx, c.geoCB, weather.EndpointGeocode, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
		State   string  `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}

	places := make([]weather.Place, 0, len(payload))
	for _, p := range payload {
		places = append(places, weather.Place{
			Name:        p.Name,
			Latitude:    p.Lat,
			Longitude:   p.Lon,
			CountryCode: p.Country,
			State:       p.State,
		})
	}
	return places, nil
}

func (c *Client) fetchCurrent(ctx context.Context, coords weather.Coordinates, endpoint string) (currentPayload, error) {
	var payload currentPayload
	if c.apiKey == "" {
		return payload, fmt.Errorf("openweather api key is not configured")
	}

	u := fmt.Sprintf("%s/weather?%s", c.baseURL, c.coordQuery(coords).Encode())
	resp, err := c.do(ctx, c.weatherCB, endpoint, u)
	if err != nil {
		return payload, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return payload, fmt.Errorf("decode current weather response: %w", err)
	}
	return payload, nil
}

func (c *Client) coordQuery(coords weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", coords.Latitude))
	values.Set("lon", fmt.Sprintf("%f", coords.Longitude))
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	return values
}

func (c *Client) do(ctx context.Context, cb *gobreaker.CircuitBreaker, endpoint, fullURL string) (*http.Response, error) {
	resp, err := common.DoWithBreaker(ctx, c.httpClient, cb, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, fullURL, nil)
	})
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, observability.OutcomeError).Inc()
		c.logger.Warn("openweather request failed", "endpoint", endpoint, "error", err)
		return nil, err
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpoint, observability.OutcomeSuccess).Inc()
	return resp, nil
}
