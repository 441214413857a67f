package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/mkravets/city-weather-service/internal/weather"
)

// APIClient talks to the service's own /weather endpoint and implements the
// store's Fetcher contract.
type APIClient struct {
	baseURL string
	http    *http.Client

	units    weather.Units
	language string
}

// New creates an APIClient for the service at baseURL. A nil httpClient
// falls back to http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APIClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		units:    weather.UnitsMetric,
		language: "en",
	}
}

// SetUnits sets the unit system sent with subsequent requests.
func (c *APIClient) SetUnits(u weather.Units) {
	if u.Valid() {
		c.units = u
	}
}

// FetchWeather fetches the normalized record for city. Non-2xx responses
// surface the server's error message verbatim.
func (c *APIClient) FetchWeather(ctx context.Context, city string) (weather.WeatherRecord, error) {
	values := url.Values{}
	values.Set("city", city)
	values.Set("units", string(c.units))
	values.Set("lang", c.language)

	u := fmt.Sprintf("%s/weather?%s", c.baseURL, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.WeatherRecord{}, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return weather.WeatherRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return weather.WeatherRecord{}, fmt.Errorf("%s", body.Error)
		}
		return weather.WeatherRecord{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var record weather.WeatherRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return weather.WeatherRecord{}, err
	}
	return record, nil
}
