package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mkravets/city-weather-service/internal/weather"
)

var validate = validator.New()

// Machine-readable error codes returned alongside HTTP statuses.
const (
	CodeMissingCity         = "MISSING_CITY_PARAMETER"
	CodeInvalidUnits        = "INVALID_UNITS_PARAMETER"
	CodeCityNotFound        = "CITY_NOT_FOUND"
	CodeInvalidAPIKey       = "INVALID_API_KEY"
	CodeAPIKeyNotConfigured = "API_KEY_NOT_CONFIGURED"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeAPIError            = "API_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	app.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			var badReq *badRequestError
			if errors.As(err, &badReq) {
				return writeError(c, fiber.StatusBadRequest, badReq.code, badReq.message)
			}
			return writeError(c, fiber.StatusBadRequest, CodeInternalError, err.Error())
		}

		record, err := service.CurrentWeather(c.UserContext(), q)
		if err != nil {
			return writeProviderError(c, err)
		}

		return c.JSON(record)
	})
}

// weatherQuery holds validated query parameters for the weather endpoint.
type weatherQuery struct {
	City  string `validate:"required"`
	Units string `validate:"required,oneof=metric imperial standard"`
	Lang  string `validate:"required"`
}

type badRequestError struct {
	code    string
	message string
}

func (e *badRequestError) Error() string {
	return e.message
}

func parseWeatherQuery(c *fiber.Ctx) (weather.Query, error) {
	q := weatherQuery{
		City:  strings.TrimSpace(c.Query("city")),
		Units: c.Query("units", string(weather.UnitsMetric)),
		Lang:  c.Query("lang", "en"),
	}

	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "City":
				return weather.Query{}, &badRequestError{
					code:    CodeMissingCity,
					message: "City parameter is required",
				}
			case "Units":
				return weather.Query{}, &badRequestError{
					code:    CodeInvalidUnits,
					message: "Invalid units parameter. Supported values: metric, imperial, standard",
				}
			}
		}
		return weather.Query{}, err
	}

	return weather.Query{
		City:     q.City,
		Units:    weather.Units(q.Units),
		Language: q.Lang,
	}, nil
}

// writeProviderError maps pipeline errors to the fixed status/code taxonomy.
func writeProviderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, weather.ErrLocationNotFound):
		return writeError(c, fiber.StatusNotFound, CodeCityNotFound, "City not found")
	case errors.Is(err, weather.ErrNotConfigured):
		return writeError(c, fiber.StatusInternalServerError, CodeAPIKeyNotConfigured, "Weather API key not configured")
	case errors.Is(err, weather.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, CodeInvalidAPIKey, "Invalid API key")
	case errors.Is(err, weather.ErrRateLimited):
		return writeError(c, fiber.StatusTooManyRequests, CodeRateLimitExceeded, "API rate limit exceeded")
	case errors.Is(err, weather.ErrUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, CodeServiceUnavailable, "Weather provider is temporarily unavailable")
	}

	var upstream *weather.UpstreamError
	if errors.As(err, &upstream) {
		status := upstream.StatusCode
		if status < http.StatusBadRequest || status > 599 {
			status = fiber.StatusInternalServerError
		}
		message := upstream.Message
		if message == "" {
			message = "Failed to fetch weather data"
		}
		return writeError(c, status, CodeAPIError, message)
	}

	return writeError(c, fiber.StatusInternalServerError, CodeInternalError, "Failed to fetch weather data")
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}
