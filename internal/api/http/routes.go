package httpapi

import (
	"errors"
	"net"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/skycastlab/weather-dashboard/internal/location"
	"github.com/skycastlab/weather-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. defaultCity is
// the terminal fallback when automatic location resolution fails.
func RegisterRoutes(app *fiber.App, service *weather.Service, resolver *location.Resolver, defaultCity string) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		var req weatherQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var (
			report *weather.Report
			err    error
		)
		if req.City != "" {
			report, err = service.ByCity(c.UserContext(), req.City)
		} else {
			report, err = service.ByCoordinates(c.UserContext(), weather.Coordinates{
				Latitude:  *req.Lat,
				Longitude: *req.Lon,
			})
		}
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(report)
	})

	v1.Get("/weather/auto", func(c *fiber.Ctx) error {
		device := reportedPosition(c)

		resolved, err := resolver.Resolve(c.UserContext(), device)
		if err != nil {
			if !errors.Is(err, location.ErrUnavailable) {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			// Terminal: both strategies exhausted. Serve the default city so
			// the dashboard still renders, and say so in the response.
			report, cityErr := service.ByCity(c.UserContext(), defaultCity)
			if cityErr != nil {
				return mapServiceError(cityErr)
			}
			return c.JSON(autoResponse{
				Method: "default",
				Label:  defaultCity,
				Report: report,
			})
		}

		report, err := service.ByCoordinates(c.UserContext(), resolved.Coordinates)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(autoResponse{
			Method: string(resolved.Method),
			Label:  resolved.Label,
			Report: report,
		})
	})

	v1.Get("/locations/search", func(c *fiber.Ctx) error {
		var req searchQuery
		req.Query = c.Query("q")
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		places, err := service.Search(c.UserContext(), req.Query)
		if err != nil {
			return mapServiceError(err)
		}
		// An empty list is a valid answer; the client decides what "no
		// match" means for its flow.
		return c.JSON(fiber.Map{
			"query":      req.Query,
			"candidates": places,
		})
	})
}

// autoResponse wraps a report with how its location was determined.
type autoResponse struct {
	Method string          `json:"method"`
	Label  string          `json:"label,omitempty"`
	Report *weather.Report `json:"report"`
}

// weatherQuery accepts either a city name or a full coordinate pair.
type weatherQuery struct {
	City string
	Lat  *float64
	Lon  *float64
}

func (q *weatherQuery) bind(c *fiber.Ctx) error {
	q.City = c.Query("city")
	if q.City != "" {
		return nil
	}

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		return errors.New("either city or both lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return errors.New("lon must be a number")
	}
	q.Lat, q.Lon = &lat, &lon
	return nil
}

type searchQuery struct {
	Query string `validate:"required,min=1"`
}

// reportedPosition builds the request-scoped device position source: the
// browser's fix travels as lat/lon query parameters, a refused permission
// prompt as denied=1, and the secure-context gate comes from how the request
// itself arrived.
func reportedPosition(c *fiber.Ctx) location.ReportedPosition {
	pos := location.ReportedPosition{
		Secure: isSecureContext(c),
		Denied: c.Query("denied") == "1",
	}
	if lat, err := strconv.ParseFloat(c.Query("lat"), 64); err == nil {
		pos.Latitude = &lat
	}
	if lon, err := strconv.ParseFloat(c.Query("lon"), 64); err == nil {
		pos.Longitude = &lon
	}
	return pos
}

func isSecureContext(c *fiber.Ctx) bool {
	if c.Secure() {
		return true
	}
	host := c.Hostname()
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return true
	}
	return false
}

func mapServiceError(err error) error {
	var fetchErr *weather.FetchError
	switch {
	case errors.Is(err, weather.ErrNoMatch):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.As(err, &fetchErr):
		return fiber.NewError(fiber.StatusBadGateway, fetchErr.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}
