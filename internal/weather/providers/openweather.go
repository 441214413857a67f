package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/mkravets/city-weather-service/internal/weather"
)

const openWeatherSource = "OpenWeatherMap Current Weather API"

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap. The
// current-conditions endpoint accepts a city name directly and supports all
// three unit systems natively, so a lookup costs exactly one outbound call.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg: HTTPClientConfig{
			Client: client,
			Retry:  defaultRetry,
		},
		circuit: newCircuit("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// ResolveLocation spends no geocoding call: the conditions endpoint geocodes
// the city name itself.
func (p *OpenWeatherProvider) ResolveLocation(ctx context.Context, q weather.Query) (weather.Location, error) {
	if p.apiKey == "" {
		return weather.Location{}, weather.ErrNotConfigured
	}
	return weather.Location{Name: q.City}, nil
}

func (p *OpenWeatherProvider) CurrentConditions(ctx context.Context, loc weather.Location, q weather.Query) (weather.RawConditions, error) {
	if p.apiKey == "" {
		return weather.RawConditions{}, weather.ErrNotConfigured
	}

	values := url.Values{}
	values.Set("q", loc.Name)
	values.Set("appid", p.apiKey)
	values.Set("units", string(q.Units))
	values.Set("lang", q.Language)

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	var payload openWeatherPayload
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.RawConditions{}, err
	}

	raw := weather.RawConditions{
		Provider:   p.name,
		Source:     openWeatherSource,
		APICalls:   loc.Lookups + 1,
		UnitSystem: q.Units,

		City:    payload.Name,
		Country: payload.Sys.Country,
		Lat:     payload.Coord.Lat,
		Lon:     payload.Coord.Lon,

		TimezoneOffsetSec: payload.Timezone,
		ObservedAtUnix:    payload.Dt,

		Temp:      payload.Main.Temp,
		FeelsLike: payload.Main.FeelsLike,
		TempMin:   payload.Main.TempMin,
		TempMax:   payload.Main.TempMax,

		HumidityPct:    payload.Main.Humidity,
		PressureHpa:    payload.Main.Pressure,
		SeaLevelHpa:    payload.Main.SeaLevel,
		GroundLevelHpa: payload.Main.GrndLevel,
		CloudCoverPct:  payload.Clouds.All,

		VisibilityMeters: payload.Visibility,

		WindSpeed:        payload.Wind.Speed,
		WindDirectionDeg: payload.Wind.Deg,
		WindGust:         payload.Wind.Gust,

		SunriseUnix: payload.Sys.Sunrise,
		SunsetUnix:  payload.Sys.Sunset,
	}

	if payload.Rain != nil {
		raw.Rain = &weather.RawAccumulation{OneHour: payload.Rain.OneH, ThreeHour: payload.Rain.ThreeH}
	}
	if payload.Snow != nil {
		raw.Snow = &weather.RawAccumulation{OneHour: payload.Snow.OneH, ThreeHour: payload.Snow.ThreeH}
	}

	if len(payload.Weather) > 0 {
		w := payload.Weather[0]
		raw.ConditionCode = w.ID
		raw.ConditionMain = w.Main
		raw.ConditionDescription = w.Description
		raw.ConditionIcon = w.Icon
	} else {
		// No condition block at all; let the normalizer fall back to its
		// unknown default.
		raw.ConditionCode = -1
	}

	return raw, nil
}

type openWeatherPayload struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
		SeaLevel  *int    `json:"sea_level"`
		GrndLevel *int    `json:"grnd_level"`
	} `json:"main"`
	Visibility *float64 `json:"visibility"`
	Wind       struct {
		Speed float64  `json:"speed"`
		Deg   int      `json:"deg"`
		Gust  *float64 `json:"gust"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Rain *struct {
		OneH   float64  `json:"1h"`
		ThreeH *float64 `json:"3h"`
	} `json:"rain"`
	Snow *struct {
		OneH   float64  `json:"1h"`
		ThreeH *float64 `json:"3h"`
	} `json:"snow"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Dt       int64 `json:"dt"`
	Timezone int   `json:"timezone"`
}
