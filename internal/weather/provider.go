package weather

import (
	"context"
)

// Location is a resolved place. Providers that geocode internally may leave
// Lat/Lon zero and carry only the name through to the conditions call.
type Location struct {
	Name              string
	Country           string
	Lat               float64
	Lon               float64
	TimezoneOffsetSec int

	// Lookups counts outbound calls spent resolving this location.
	Lookups int
}

// RawAccumulation mirrors Accumulation before normalization.
type RawAccumulation struct {
	OneHour   float64
	ThreeHour *float64
}

// RawConditions is a provider's reading before normalization. Numeric fields
// are expressed in UnitSystem; optional fields are nil when the provider did
// not report them.
type RawConditions struct {
	Provider string
	Source   string

	// APICalls is the number of outbound calls spent producing this reading,
	// including location resolution.
	APICalls int

	// UnitSystem names the system the numeric fields below are expressed in.
	UnitSystem Units

	City    string
	Country string
	Lat     float64
	Lon     float64

	TimezoneOffsetSec int
	ObservedAtUnix    int64

	Temp      float64
	FeelsLike float64
	TempMin   float64
	TempMax   float64

	HumidityPct    int
	PressureHpa    int
	SeaLevelHpa    *int
	GroundLevelHpa *int
	CloudCoverPct  int

	// VisibilityMeters is always meters regardless of UnitSystem.
	VisibilityMeters *float64

	WindSpeed        float64
	WindDirectionDeg int
	WindGust         *float64

	Rain *RawAccumulation
	Snow *RawAccumulation

	// ConditionCode is the provider's numeric condition code. Description,
	// Main and Icon may be empty for providers that return only a code; the
	// normalizer fills them from its lookup table.
	ConditionCode        int
	ConditionMain        string
	ConditionDescription string
	ConditionIcon        string

	SunriseUnix int64
	SunsetUnix  int64
}

// Provider abstracts a weather data source (e.g. OpenWeatherMap, Open-Meteo).
// ResolveLocation performs at most one geocoding lookup; providers whose
// conditions endpoint accepts a city name directly return the query city
// unchanged with zero lookups.
type Provider interface {
	Name() string
	ResolveLocation(ctx context.Context, q Query) (Location, error)
	CurrentConditions(ctx context.Context, loc Location, q Query) (RawConditions, error)
}
