package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/mkravets/city-weather-service/internal/weather"
)

const openMeteoSource = "Open-Meteo Forecast API"

// OpenMeteoProvider implements weather.Provider for Open-Meteo. The forecast
// endpoint takes coordinates only, so a lookup costs one geocoding call
// followed by one conditions call. Geocoding goes through Google when a
// geocoder API key is configured, otherwise through Open-Meteo's free
// geocoding API. Values are metric-native; the normalizer converts for
// imperial/standard requests.
type OpenMeteoProvider struct {
	name         string
	geocodeURL   string
	forecastURL  string
	googleAPIKey string
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, googleAPIKey string) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:         "openmeteo",
		geocodeURL:   "https://geocoding-api.open-meteo.com/v1/search",
		forecastURL:  "https://api.open-meteo.com/v1/forecast",
		googleAPIKey: googleAPIKey,
		httpCfg: HTTPClientConfig{
			Client: client,
			Retry:  defaultRetry,
		},
		circuit: newCircuit("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// ResolveLocation performs exactly one geocoding lookup.
func (p *OpenMeteoProvider) ResolveLocation(ctx context.Context, q weather.Query) (weather.Location, error) {
	if p.googleAPIKey != "" {
		return p.resolveViaGoogle(q)
	}
	return p.resolveViaOpenMeteo(ctx, q)
}

func (p *OpenMeteoProvider) resolveViaGoogle(q weather.Query) (weather.Location, error) {
	geocoder.ApiKey = p.googleAPIKey

	loc, err := geocoder.Geocoding(geocoder.Address{City: q.City})
	if err != nil {
		return weather.Location{}, fmt.Errorf("google geocoding failed for %q: %w", q.City, err)
	}

	return weather.Location{
		Name:    q.City,
		Lat:     loc.Latitude,
		Lon:     loc.Longitude,
		Lookups: 1,
	}, nil
}

func (p *OpenMeteoProvider) resolveViaOpenMeteo(ctx context.Context, q weather.Query) (weather.Location, error) {
	values := url.Values{}
	values.Set("name", q.City)
	values.Set("count", "1")
	values.Set("language", q.Language)
	values.Set("format", "json")

	u := fmt.Sprintf("%s?%s", p.geocodeURL, values.Encode())

	var payload struct {
		Results []struct {
			Name        string  `json:"name"`
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
			CountryCode string  `json:"country_code"`
		} `json:"results"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.Location{}, err
	}

	// The geocoding API reports "no match" as a 200 with no results.
	if len(payload.Results) == 0 {
		return weather.Location{}, weather.ErrLocationNotFound
	}

	r := payload.Results[0]
	return weather.Location{
		Name:    r.Name,
		Country: strings.ToUpper(r.CountryCode),
		Lat:     r.Latitude,
		Lon:     r.Longitude,
		Lookups: 1,
	}, nil
}

func (p *OpenMeteoProvider) CurrentConditions(ctx context.Context, loc weather.Location, q weather.Query) (weather.RawConditions, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
	values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
	values.Set("current", strings.Join([]string{
		"temperature_2m",
		"relative_humidity_2m",
		"apparent_temperature",
		"pressure_msl",
		"surface_pressure",
		"cloud_cover",
		"wind_speed_10m",
		"wind_direction_10m",
		"wind_gusts_10m",
		"weather_code",
		"rain",
		"snowfall",
	}, ","))
	values.Set("daily", "temperature_2m_max,temperature_2m_min,sunrise,sunset")
	values.Set("forecast_days", "1")
	values.Set("wind_speed_unit", "ms")
	values.Set("timezone", "auto")
	// Unix timestamps keep the offset arithmetic exact; the default ISO
	// strings would be local wall-clock text.
	values.Set("timeformat", "unixtime")

	u := fmt.Sprintf("%s?%s", p.forecastURL, values.Encode())

	var payload openMeteoPayload
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.RawConditions{}, err
	}

	seaLevel := int(math.Round(payload.Current.PressureMSL))
	groundLevel := int(math.Round(payload.Current.SurfacePressure))

	raw := weather.RawConditions{
		Provider:   p.name,
		Source:     openMeteoSource,
		APICalls:   loc.Lookups + 1,
		UnitSystem: weather.UnitsMetric,

		City:    loc.Name,
		Country: loc.Country,
		Lat:     payload.Latitude,
		Lon:     payload.Longitude,

		TimezoneOffsetSec: payload.UTCOffsetSeconds,
		ObservedAtUnix:    payload.Current.Time,

		Temp:      payload.Current.Temperature,
		FeelsLike: payload.Current.Apparent,
		TempMin:   payload.Current.Temperature,
		TempMax:   payload.Current.Temperature,

		HumidityPct:    payload.Current.Humidity,
		PressureHpa:    seaLevel,
		SeaLevelHpa:    &seaLevel,
		GroundLevelHpa: &groundLevel,
		CloudCoverPct:  payload.Current.CloudCover,

		WindSpeed:        payload.Current.WindSpeed,
		WindDirectionDeg: payload.Current.WindDirection,
		WindGust:         payload.Current.WindGusts,

		// Code only; description and icon come from the normalizer's table.
		ConditionCode: payload.Current.WeatherCode,
	}

	if len(payload.Daily.TempMin) > 0 {
		raw.TempMin = payload.Daily.TempMin[0]
	}
	if len(payload.Daily.TempMax) > 0 {
		raw.TempMax = payload.Daily.TempMax[0]
	}
	if len(payload.Daily.Sunrise) > 0 {
		raw.SunriseUnix = payload.Daily.Sunrise[0]
	}
	if len(payload.Daily.Sunset) > 0 {
		raw.SunsetUnix = payload.Daily.Sunset[0]
	}

	if payload.Current.Rain > 0 {
		raw.Rain = &weather.RawAccumulation{OneHour: payload.Current.Rain}
	}
	if payload.Current.Snowfall > 0 {
		// Open-Meteo reports snowfall in centimeters.
		mm := math.Round(payload.Current.Snowfall*10*100) / 100
		raw.Snow = &weather.RawAccumulation{OneHour: mm}
	}

	return raw, nil
}

type openMeteoPayload struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	UTCOffsetSeconds int     `json:"utc_offset_seconds"`
	Current          struct {
		Time            int64    `json:"time"`
		Temperature     float64  `json:"temperature_2m"`
		Humidity        int      `json:"relative_humidity_2m"`
		Apparent        float64  `json:"apparent_temperature"`
		PressureMSL     float64  `json:"pressure_msl"`
		SurfacePressure float64  `json:"surface_pressure"`
		CloudCover      int      `json:"cloud_cover"`
		WindSpeed       float64  `json:"wind_speed_10m"`
		WindDirection   int      `json:"wind_direction_10m"`
		WindGusts       *float64 `json:"wind_gusts_10m"`
		WeatherCode     int      `json:"weather_code"`
		Rain            float64  `json:"rain"`
		Snowfall        float64  `json:"snowfall"`
	} `json:"current"`
	Daily struct {
		TempMax []float64 `json:"temperature_2m_max"`
		TempMin []float64 `json:"temperature_2m_min"`
		Sunrise []int64   `json:"sunrise"`
		Sunset  []int64   `json:"sunset"`
	} `json:"daily"`
}
