package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/skycastlab/weather-dashboard/internal/observability"
)

type fakeProvider struct {
	mu sync.Mutex

	obs     Observation
	stats   StatsReading
	samples []ForecastSample
	places  []Place

	currentErr  error
	statsErr    error
	forecastErr error
	searchErr   error

	lastCoords Coordinates
}

func (f *fakeProvider) CurrentWeather(ctx context.Context, coords Coordinates) (Observation, error) {
	f.mu.Lock()
	f.lastCoords = coords
	f.mu.Unlock()
	if f.currentErr != nil {
		return Observation{}, f.currentErr
	}
	return f.obs, nil
}

func (f *fakeProvider) CurrentStats(ctx context.Context, coords Coordinates) (StatsReading, error) {
	if f.statsErr != nil {
		return StatsReading{}, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeProvider) Forecast(ctx context.Context, coords Coordinates) ([]ForecastSample, error) {
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	return f.samples, nil
}

func (f *fakeProvider) SearchLocation(ctx context.Context, query string) ([]Place, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.places, nil
}

func newTestService(p Provider) *Service {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
	return NewService(p, clock, time.UTC, observability.NewMetricsForTesting(), nil)
}

func testProvider() *fakeProvider {
	return &fakeProvider{
		obs: Observation{
			Name:          "Berlin",
			CountryCode:   "DE",
			TempC:         21.6,
			FeelsLikeC:    20.4,
			ConditionID:   800,
			ConditionMain: "Clear",
			ConditionDesc: "clear sky",
			Coordinates:   Coordinates{Latitude: 52.52, Longitude: 13.405},
		},
		stats: StatsReading{
			VisibilityM: 9800,
			HumidityPct: 55,
			WindSpeedMS: 5.0,
			PressureHPa: 1015,
			Sunrise:     time.Date(2026, 3, 9, 6, 30, 0, 0, time.UTC).Unix(),
			Sunset:      time.Date(2026, 3, 9, 18, 45, 0, 0, time.UTC).Unix(),
		},
		samples: []ForecastSample{
			{
				Timestamp:     time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC),
				TempMax:       22,
				TempMin:       14,
				ConditionID:   801,
				ConditionDesc: "few clouds",
				Pop:           0.2,
			},
		},
	}
}

func TestByCoordinatesAssemblesReport(t *testing.T) {
	provider := testProvider()
	svc := newTestService(provider)

	report, err := svc.ByCoordinates(context.Background(), Coordinates{Latitude: 52.52, Longitude: 13.405})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := report.Snapshot
	if snap.LocationLabel != "Berlin, DE" {
		t.Errorf("location label = %q, want %q", snap.LocationLabel, "Berlin, DE")
	}
	if snap.TemperatureC != 22 {
		t.Errorf("temperature = %d, want 22 (rounded from 21.6)", snap.TemperatureC)
	}
	if snap.FeelsLikeC != 20 {
		t.Errorf("feels like = %d, want 20", snap.FeelsLikeC)
	}
	if snap.Category != CategoryClear {
		t.Errorf("category = %q, want clear", snap.Category)
	}
	if snap.ObservedDate != "Monday, March 9, 2026" {
		t.Errorf("observed date = %q", snap.ObservedDate)
	}

	stats := report.Statistics
	if stats.WindKph != 18 {
		t.Errorf("wind = %d km/h, want 18 (5.0 m/s * 3.6)", stats.WindKph)
	}
	if stats.VisibilityKm != "9 km" {
		t.Errorf("visibility = %q, want %q (9800 m truncated)", stats.VisibilityKm, "9 km")
	}
	if stats.UVIndex != 3 {
		t.Errorf("uv index = %d, want the fixed placeholder 3", stats.UVIndex)
	}
	if stats.Sunrise != "06:30 AM" {
		t.Errorf("sunrise = %q, want 06:30 AM", stats.Sunrise)
	}
	if stats.Sunset != "06:45 PM" {
		t.Errorf("sunset = %q, want 06:45 PM", stats.Sunset)
	}

	if len(report.Forecast) != 1 || report.Forecast[0].DayLabel != "Today" {
		t.Errorf("forecast = %+v, want single Today bucket", report.Forecast)
	}
	if report.Insights.Clothing == "" || report.Insights.Recommendation == "" {
		t.Errorf("insights not derived: %+v", report.Insights)
	}
	if report.ID == "" || report.Generation == 0 {
		t.Errorf("report missing id/generation: id=%q gen=%d", report.ID, report.Generation)
	}
}

func TestByCoordinatesFailsWholeAggregation(t *testing.T) {
	provider := testProvider()
	provider.forecastErr = errors.New("upstream 503")
	svc := newTestService(provider)

	report, err := svc.ByCoordinates(context.Background(), Coordinates{})
	if report != nil {
		t.Fatalf("expected no report when a sub-call fails, got %+v", report)
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Endpoint != EndpointForecast {
		t.Errorf("failing endpoint = %q, want %q", fetchErr.Endpoint, EndpointForecast)
	}
}

func TestByCityFirstMatchWins(t *testing.T) {
	provider := testProvider()
	provider.places = []Place{
		{Name: "Berlin", Latitude: 52.52, Longitude: 13.405, CountryCode: "DE"},
		{Name: "Berlin", Latitude: 44.47, Longitude: -71.19, CountryCode: "US", State: "New Hampshire"},
	}
	svc := newTestService(provider)

	if _, err := svc.ByCity(context.Background(), "Berlin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	provider.mu.Lock()
	got := provider.lastCoords
	provider.mu.Unlock()
	if got.Latitude != 52.52 || got.Longitude != 13.405 {
		t.Errorf("aggregated coords = %v, want the first candidate's", got)
	}
}

func TestByCityNoMatch(t *testing.T) {
	provider := testProvider()
	provider.places = nil
	svc := newTestService(provider)

	_, err := svc.ByCity(context.Background(), "Atlantis")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestByCityGeocodeFailure(t *testing.T) {
	provider := testProvider()
	provider.searchErr = errors.New("connection refused")
	svc := newTestService(provider)

	_, err := svc.ByCity(context.Background(), "Berlin")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Endpoint != EndpointGeocode {
		t.Fatalf("expected geocode FetchError, got %v", err)
	}
}

func TestByCoordinatesIsIdempotent(t *testing.T) {
	provider := testProvider()
	svc := newTestService(provider)
	coords := Coordinates{Latitude: 52.52, Longitude: 13.405}

	first, err := svc.ByCoordinates(context.Background(), coords)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ByCoordinates(context.Background(), coords)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Identical upstream data must yield identical content; only the
	// correlation id and generation stamp move.
	if diff := cmp.Diff(first.Snapshot, second.Snapshot); diff != "" {
		t.Errorf("snapshot mismatch (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Statistics, second.Statistics); diff != "" {
		t.Errorf("statistics mismatch (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Forecast, second.Forecast); diff != "" {
		t.Errorf("forecast mismatch (-first +second):\n%s", diff)
	}
	if second.Generation <= first.Generation {
		t.Errorf("generation did not advance: %d then %d", first.Generation, second.Generation)
	}
}
