package weather

import (
	"strings"

	"github.com/skycastlab/weather-dashboard/internal/common"
)

// DeriveInsights computes the four advice strings from a snapshot and its
// statistics. Pure and deterministic; condition matching is case-insensitive.
// Each rule table is checked top to bottom and the first match wins.
func DeriveInsights(snap Snapshot, stats Statistics) InsightSet {
	temp := snap.TemperatureC
	condition := strings.ToLower(snap.ConditionText)
	humidity := stats.HumidityPct
	wind := stats.WindKph

	var out InsightSet

	switch {
	case temp > 25:
		out.Clothing = "Light, breathable clothing recommended. Cotton fabrics work best in this heat."
	case temp > 15:
		out.Clothing = "Comfortable weather! Light layers work well - maybe a light jacket for the evening."
	case temp > 5:
		out.Clothing = "Bundle up! Warm jacket, long pants, and closed shoes recommended."
	default:
		out.Clothing = "Very cold! Heavy coat, warm layers, gloves, and a hat are essential."
	}

	switch {
	case common.HasAny(condition, "rain", "storm"):
		out.Activity = "Indoor activities recommended. Great day for museums, shopping, or cozy cafes."
	case strings.Contains(condition, "snow"):
		out.Activity = "Perfect for winter sports! Skiing, snowboarding, or building snowmen."
	case temp > 20 && temp < 28:
		out.Activity = "Ideal weather for outdoor activities! Perfect for hiking, cycling, or picnics."
	case temp > 15:
		out.Activity = "Good day for light outdoor activities. Walking, jogging, or outdoor dining."
	default:
		out.Activity = "Bundle up for outdoor activities, or enjoy indoor entertainment."
	}

	switch {
	case temp > 30:
		out.Health = "Stay hydrated! Drink plenty of water and limit sun exposure during peak hours."
	case common.HasAny(condition, "sun", "clear"):
		out.Health = "Don't forget sunscreen! UV levels may be elevated on clear days."
	case humidity > 80:
		out.Health = "High humidity - stay cool and hydrated. Take breaks if exercising outdoors."
	case wind > 20:
		out.Health = "Windy conditions - protect your eyes and secure loose items."
	default:
		out.Health = "Pleasant conditions for being outdoors. Enjoy the fresh air!"
	}

	switch {
	case strings.Contains(condition, "rain"):
		out.Recommendation = "Carry an umbrella and wear waterproof shoes. Check for weather updates."
	case strings.Contains(condition, "snow"):
		out.Recommendation = "Drive carefully if traveling. Allow extra time for your commute."
	case wind > 25:
		out.Recommendation = "Secure outdoor items and be cautious of falling branches."
	default:
		out.Recommendation = "Great day to enjoy the outdoors! Make the most of this lovely weather."
	}

	return out
}
