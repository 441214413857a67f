package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkravets/city-weather-service/internal/weather"
)

func TestFetchWeatherSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("city"); got != "London" {
			t.Errorf("unexpected city %q", got)
		}
		if got := r.URL.Query().Get("units"); got != "imperial" {
			t.Errorf("unexpected units %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"city":"London","country":"GB","temperature":54}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	c.SetUnits(weather.UnitsImperial)

	record, err := c.FetchWeather(context.Background(), "London")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.City != "London" || record.Temperature != 54 {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestFetchWeatherSurfacesServerErrorVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"City not found","code":"CITY_NOT_FOUND"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())

	_, err := c.FetchWeather(context.Background(), "Nowhereville")
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "City not found" {
		t.Fatalf("expected the server message verbatim, got %q", err.Error())
	}
}

func TestFetchWeatherRejectsInvalidUnits(t *testing.T) {
	c := New("http://localhost:0", nil)
	c.SetUnits(weather.Units("bogus"))

	if c.units != weather.UnitsMetric {
		t.Fatalf("invalid units must be ignored, got %s", c.units)
	}
}
