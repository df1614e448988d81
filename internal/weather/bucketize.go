package weather

import (
	"fmt"
	"math"
	"time"
)

const maxForecastDays = 7

// dayBucket accumulates the samples seen for one calendar date.
type dayBucket struct {
	date    time.Time
	temps   []float64
	pops    []float64
	condID  int
	condTxt string
}

// BucketizeForecast groups 3-hour forecast samples into per-day summaries,
// at most seven, in first-seen date order. Dates are resolved in loc.
//
// High and low are taken from the pooled set of every TempMax and TempMin seen
// that day, not tracked separately. The first sample of a date supplies the
// day's representative condition. Precipitation is the mean probability across
// the date's samples on a 0-100 scale, kept only when it rounds above zero.
func BucketizeForecast(samples []ForecastSample, loc *time.Location) []ForecastDay {
	if loc == nil {
		loc = time.Local
	}

	var order []string
	buckets := make(map[string]*dayBucket)

	for _, s := range samples {
		ts := s.Timestamp.In(loc)
		key := ts.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{
				date:    ts,
				condID:  s.ConditionID,
				condTxt: s.ConditionDesc,
			}
			buckets[key] = b
			order = append(order, key)
		}

		b.temps = append(b.temps, s.TempMax, s.TempMin)
		b.pops = append(b.pops, s.Pop*100)
	}

	days := make([]ForecastDay, 0, maxForecastDays)
	for i, key := range order {
		if i >= maxForecastDays {
			break
		}
		b := buckets[key]

		high, low := b.temps[0], b.temps[0]
		for _, t := range b.temps[1:] {
			high = math.Max(high, t)
			low = math.Min(low, t)
		}

		var popSum float64
		for _, p := range b.pops {
			popSum += p
		}
		precip := int(math.Round(popSum / float64(len(b.pops))))

		day := ForecastDay{
			ID:            fmt.Sprintf("forecast-%d", i),
			DayLabel:      dayLabel(i, b.date),
			ConditionText: b.condTxt,
			HighC:         int(math.Round(high)),
			LowC:          int(math.Round(low)),
			Category:      MapCategory(b.condID),
		}
		if precip > 0 {
			day.PrecipitationPct = precip
		}
		days = append(days, day)
	}

	return days
}

func dayLabel(index int, date time.Time) string {
	switch index {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return date.Weekday().String()
	}
}
