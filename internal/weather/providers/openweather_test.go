package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkravets/city-weather-service/internal/weather"
)

const openWeatherFixture = `{
	"coord": {"lon": -0.1257, "lat": 51.5085},
	"weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}],
	"main": {
		"temp": 12.3, "feels_like": 11.6, "temp_min": 10.1, "temp_max": 14.2,
		"pressure": 1012, "humidity": 81, "sea_level": 1012, "grnd_level": 1008
	},
	"visibility": 10000,
	"wind": {"speed": 4.12, "deg": 240, "gust": 7.2},
	"clouds": {"all": 75},
	"rain": {"1h": 0.25},
	"dt": 1700000000,
	"sys": {"country": "GB", "sunrise": 1699946000, "sunset": 1699980000},
	"timezone": 0,
	"name": "London"
}`

func TestOpenWeatherCurrentConditions(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openWeatherFixture))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "test-key")
	p.baseURL = srv.URL

	q := weather.Query{City: "London", Units: weather.UnitsMetric, Language: "en"}

	loc, err := p.ResolveLocation(context.Background(), q)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if loc.Lookups != 0 {
		t.Errorf("direct provider should spend no geocoding calls, got %d", loc.Lookups)
	}

	raw, err := p.CurrentConditions(context.Background(), loc, q)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	for _, want := range []string{"q=London", "units=metric", "lang=en", "appid=test-key"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("outbound query %q missing %q", gotQuery, want)
		}
	}

	if raw.APICalls != 1 {
		t.Errorf("expected exactly 1 api call, got %d", raw.APICalls)
	}
	if raw.City != "London" || raw.Country != "GB" {
		t.Errorf("unexpected location %s/%s", raw.City, raw.Country)
	}
	if raw.Temp != 12.3 || raw.FeelsLike != 11.6 {
		t.Errorf("unexpected temperatures %v/%v", raw.Temp, raw.FeelsLike)
	}
	if raw.SeaLevelHpa == nil || *raw.SeaLevelHpa != 1012 {
		t.Errorf("unexpected sea level pressure %v", raw.SeaLevelHpa)
	}
	if raw.VisibilityMeters == nil || *raw.VisibilityMeters != 10000 {
		t.Errorf("unexpected visibility %v", raw.VisibilityMeters)
	}
	if raw.WindGust == nil || *raw.WindGust != 7.2 {
		t.Errorf("unexpected gust %v", raw.WindGust)
	}
	if raw.Rain == nil || raw.Rain.OneHour != 0.25 {
		t.Errorf("unexpected rain %+v", raw.Rain)
	}
	if raw.Rain != nil && raw.Rain.ThreeHour != nil {
		t.Error("3h rain window should be absent")
	}
	if raw.Snow != nil {
		t.Error("snow should be absent")
	}
	if raw.ConditionDescription != "light rain" || raw.ConditionIcon != "10d" {
		t.Errorf("unexpected condition %q/%q", raw.ConditionDescription, raw.ConditionIcon)
	}
	if raw.UnitSystem != weather.UnitsMetric {
		t.Errorf("unexpected unit system %s", raw.UnitSystem)
	}
}

func TestOpenWeatherMissingKeyIsConfigError(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "")

	_, err := p.ResolveLocation(context.Background(), weather.Query{City: "London"})
	if !errors.Is(err, weather.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestOpenWeatherCityNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "test-key")
	p.baseURL = srv.URL

	_, err := p.CurrentConditions(context.Background(), weather.Location{Name: "Nowhereville"}, weather.Query{City: "Nowhereville", Units: weather.UnitsMetric, Language: "en"})
	if !errors.Is(err, weather.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}
