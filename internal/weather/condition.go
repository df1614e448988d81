package weather

// MapCategory maps an upstream numeric weather condition code to a Category.
// Codes follow the OpenWeatherMap grouping: 2xx thunderstorm, 3xx-5xx rain and
// drizzle, 6xx snow, 800 clear, above 800 clouds. Unknown codes fall back to
// clear so the mapping is total.
func MapCategory(code int) Category {
	switch {
	case code >= 200 && code < 300:
		return CategoryThunderstorm
	case code >= 300 && code < 600:
		return CategoryRainy
	case code >= 600 && code < 700:
		return CategorySnowy
	case code == 800:
		return CategoryClear
	case code > 800:
		return CategoryCloudy
	default:
		return CategoryClear
	}
}
