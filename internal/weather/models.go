package weather

import (
	"fmt"
	"time"
)

// Category is the normalized five-way weather classification the dashboard
// uses to pick a background and icon.
type Category string

const (
	CategoryClear        Category = "clear"
	CategoryCloudy       Category = "cloudy"
	CategoryRainy        Category = "rainy"
	CategorySnowy        Category = "snowy"
	CategoryThunderstorm Category = "thunderstorm"
)

// Coordinates is a latitude/longitude pair. Always request-scoped; produced by
// the location resolver or the geocoder and consumed by the aggregation service.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Snapshot is one immutable, fully populated weather observation for a
// coordinate pair. A refresh replaces the whole value; nothing mutates it.
type Snapshot struct {
	LocationLabel string       `json:"locationLabel"`
	TemperatureC  int          `json:"temperatureC"`
	ConditionText string       `json:"conditionText"`
	FeelsLikeC    int          `json:"feelsLikeC"`
	ObservedDate  string       `json:"observedDate"`
	Category      Category     `json:"category"`
	CountryCode   string       `json:"countryCode,omitempty"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
}

// Statistics holds the secondary readings shown alongside a Snapshot. It is
// fetched in lockstep with the snapshot for the same coordinates; the two are
// only ever constructed and replaced together.
type Statistics struct {
	VisibilityKm string `json:"visibilityKm"`
	HumidityPct  int    `json:"humidityPct"`
	WindKph      int    `json:"windKph"`
	PressureHPa  int    `json:"pressureHPa"`
	UVIndex      int    `json:"uvIndex"`
	Sunrise      string `json:"sunrise"`
	Sunset       string `json:"sunset,omitempty"`
}

// ForecastDay is a one-day summary bucketized from 3-hour forecast samples.
type ForecastDay struct {
	ID               string   `json:"id"`
	DayLabel         string   `json:"dayLabel"`
	ConditionText    string   `json:"conditionText"`
	HighC            int      `json:"highC"`
	LowC             int      `json:"lowC"`
	Category         Category `json:"category"`
	PrecipitationPct int      `json:"precipitationPct,omitempty"`
}

// InsightSet holds the four derived advice strings. Recomputed on every
// snapshot change; never persisted.
type InsightSet struct {
	Clothing       string `json:"clothing"`
	Activity       string `json:"activity"`
	Health         string `json:"health"`
	Recommendation string `json:"recommendation"`
}

// Report bundles everything one aggregation produces. ID and Generation let a
// consumer discard a slow stale response that settles after a newer one.
type Report struct {
	ID         string        `json:"id"`
	Generation uint64        `json:"generation"`
	Snapshot   Snapshot      `json:"snapshot"`
	Statistics Statistics    `json:"statistics"`
	Forecast   []ForecastDay `json:"forecast"`
	Insights   InsightSet    `json:"insights"`
}

// Observation is the raw current-conditions reading as fetched from the
// upstream provider, before unit conversion and labeling.
type Observation struct {
	Name          string
	CountryCode   string
	TempC         float64
	FeelsLikeC    float64
	ConditionID   int
	ConditionMain string
	ConditionDesc string
	Coordinates   Coordinates
}

// StatsReading is the raw statistics projection of the current-conditions
// endpoint. Sunrise and Sunset are unix seconds.
type StatsReading struct {
	VisibilityM int
	HumidityPct int
	WindSpeedMS float64
	PressureHPa int
	Sunrise     int64
	Sunset      int64
}

// ForecastSample is one 3-hour forecast entry.
type ForecastSample struct {
	Timestamp     time.Time
	TempMax       float64
	TempMin       float64
	ConditionID   int
	ConditionMain string
	ConditionDesc string
	Pop           float64 // precipitation probability, 0..1
}

// Place is a geocoding candidate.
type Place struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CountryCode string  `json:"countryCode"`
	State       string  `json:"state,omitempty"`
}
