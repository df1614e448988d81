package weather

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/skycastlab/weather-dashboard/internal/observability"
)

// Upstream UV data is not fetched in this design; the stats card shows a
// fixed placeholder. Known limitation, kept on purpose.
const placeholderUVIndex = 3

const observedDateFormat = "Monday, January 2, 2006"
const sunClockFormat = "03:04 PM"

// Provider abstracts the upstream weather API. Current conditions and stats
// are two separate sub-calls even though they hit the same resource; that
// two-call shape is part of the external contract and is preserved.
type Provider interface {
	CurrentWeather(ctx context.Context, coords Coordinates) (Observation, error)
	CurrentStats(ctx context.Context, coords Coordinates) (StatsReading, error)
	Forecast(ctx context.Context, coords Coordinates) ([]ForecastSample, error)
	SearchLocation(ctx context.Context, query string) ([]Place, error)
}

// Service aggregates the three upstream fetches into one consistent Report.
type Service struct {
	provider Provider
	clock    clockwork.Clock
	tz       *time.Location
	metrics  *observability.Metrics
	logger   *slog.Logger

	gen atomic.Uint64
}

// NewService creates a Service. tz controls calendar-date bucketing and the
// rendering of observed dates and sun times; pass time.Local in production.
func NewService(provider Provider, clock clockwork.Clock, tz *time.Location, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if tz == nil {
		tz = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &Service{
		provider: provider,
		clock:    clock,
		tz:       tz,
		metrics:  metrics,
		logger:   logger,
	}
}

// ByCoordinates fetches current conditions, statistics, and the forecast
// concurrently and assembles them into a Report. The join is all-or-nothing:
// the first sub-call failure cancels the rest and fails the whole call with a
// FetchError naming the sub-call; no partial report is ever returned.
func (s *Service) ByCoordinates(ctx context.Context, coords Coordinates) (*Report, error) {
	id := uuid.NewString()
	start := time.Now()

	var (
		obs     Observation
		raw     StatsReading
		samples []ForecastSample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := s.provider.CurrentWeather(gctx, coords)
		if err != nil {
			return &FetchError{Endpoint: EndpointCurrent, Err: err}
		}
		obs = o
		return nil
	})
	g.Go(func() error {
		r, err := s.provider.CurrentStats(gctx, coords)
		if err != nil {
			return &FetchError{Endpoint: EndpointStats, Err: err}
		}
		raw = r
		return nil
	})
	g.Go(func() error {
		f, err := s.provider.Forecast(gctx, coords)
		if err != nil {
			return &FetchError{Endpoint: EndpointForecast, Err: err}
		}
		samples = f
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("weather aggregation failed", "report_id", id, "coords", coords.String(), "error", err)
		return nil, err
	}

	report := &Report{
		ID:         id,
		Generation: s.gen.Add(1),
		Snapshot:   s.buildSnapshot(obs),
		Statistics: s.buildStatistics(raw),
		Forecast:   BucketizeForecast(samples, s.tz),
	}
	report.Insights = DeriveInsights(report.Snapshot, report.Statistics)

	s.metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("weather aggregated",
		"report_id", id,
		"location", report.Snapshot.LocationLabel,
		"temperature_c", report.Snapshot.TemperatureC,
		"forecast_days", len(report.Forecast),
	)
	return report, nil
}

// ByCity resolves a free-text place name through the geocoder, first match
// wins, then aggregates by the matched coordinates.
func (s *Service) ByCity(ctx context.Context, name string) (*Report, error) {
	places, err := s.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, name)
	}

	p := places[0]
	return s.ByCoordinates(ctx, Coordinates{Latitude: p.Latitude, Longitude: p.Longitude})
}

// Search returns up to five geocoding candidates for a place name. An empty
// result is not an error; transport and HTTP failures are.
func (s *Service) Search(ctx context.Context, name string) ([]Place, error) {
	places, err := s.provider.SearchLocation(ctx, name)
	if err != nil {
		return nil, &FetchError{Endpoint: EndpointGeocode, Err: err}
	}
	return places, nil
}

func (s *Service) buildSnapshot(obs Observation) Snapshot {
	label := obs.Name
	if obs.CountryCode != "" {
		label = fmt.Sprintf("%s, %s", obs.Name, obs.CountryCode)
	}

	coords := obs.Coordinates
	return Snapshot{
		LocationLabel: label,
		TemperatureC:  int(math.Round(obs.TempC)),
		ConditionText: obs.ConditionDesc,
		FeelsLikeC:    int(math.Round(obs.FeelsLikeC)),
		ObservedDate:  s.clock.Now().In(s.tz).Format(observedDateFormat),
		Category:      MapCategory(obs.ConditionID),
		CountryCode:   obs.CountryCode,
		Coordinates:   &coords,
	}
}

func (s *Service) buildStatistics(raw StatsReading) Statistics {
	stats := Statistics{
		VisibilityKm: fmt.Sprintf("%d km", raw.VisibilityM/1000),
		HumidityPct:  raw.HumidityPct,
		WindKph:      int(math.Round(raw.WindSpeedMS * 3.6)),
		PressureHPa:  raw.PressureHPa,
		UVIndex:      placeholderUVIndex,
		Sunrise:      time.Unix(raw.Sunrise, 0).In(s.tz).Format(sunClockFormat),
	}
	if raw.Sunset != 0 {
		stats.Sunset = time.Unix(raw.Sunset, 0).In(s.tz).Format(sunClockFormat)
	}
	return stats
}
