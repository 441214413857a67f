package weather

import (
	"time"
)

// Units identifies one of the three supported measurement systems.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
	UnitsStandard Units = "standard"
)

// Valid reports whether u is one of the recognized unit systems.
func (u Units) Valid() bool {
	switch u {
	case UnitsMetric, UnitsImperial, UnitsStandard:
		return true
	}
	return false
}

// Query is a validated weather lookup request.
type Query struct {
	City     string
	Units    Units
	Language string
}

// UnitLabels names the unit attached to each measured quantity in a record.
type UnitLabels struct {
	Temperature   string `json:"temperature"`
	WindSpeed     string `json:"windSpeed"`
	Pressure      string `json:"pressure"`
	Visibility    string `json:"visibility"`
	Precipitation string `json:"precipitation"`
}

// LabelsFor returns the display unit labels for a unit system.
func LabelsFor(u Units) UnitLabels {
	labels := UnitLabels{
		Temperature:   "°C",
		WindSpeed:     "m/s",
		Pressure:      "hPa",
		Visibility:    "km",
		Precipitation: "mm",
	}

	switch u {
	case UnitsImperial:
		labels.Temperature = "°F"
		labels.WindSpeed = "mph"
		labels.Visibility = "miles"
	case UnitsStandard:
		labels.Temperature = "K"
	}

	return labels
}

// Condition describes the current weather condition in human terms.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Wind holds wind measurements. Gust is nil when the provider reported none.
type Wind struct {
	Speed     float64  `json:"speed"`
	Direction int      `json:"direction"`
	Gust      *float64 `json:"gust"`
}

// Accumulation is precipitation accumulated over the trailing 1h/3h windows.
// A zero OneHour with a present parent object means "no precipitation measured";
// ThreeHour is nil when the provider did not report that window.
type Accumulation struct {
	OneHour   float64  `json:"1h"`
	ThreeHour *float64 `json:"3h"`
}

// Precipitation groups rain and snow accumulation. Either side is nil when the
// provider reported no precipitation of that kind at all.
type Precipitation struct {
	Rain *Accumulation `json:"rain"`
	Snow *Accumulation `json:"snow"`
}

// Coordinates is the resolved geographic position of the queried city.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Sun holds sunrise and sunset expressed in the location's local time.
type Sun struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// Meta records how the response was produced.
type Meta struct {
	RequestedUnits    Units  `json:"requestedUnits"`
	RequestedLanguage string `json:"requestedLanguage"`
	APICallsUsed      int    `json:"apiCallsUsed"`
	Source            string `json:"source"`
}

// WeatherRecord is the normalized weather view returned to clients. Every
// temperature-like field shares the unit system named in Units; display
// temperatures are rounded to whole units.
type WeatherRecord struct {
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Temperature int      `json:"temperature"`
	FeelsLike   int      `json:"feelsLike"`
	TempMin     int      `json:"tempMin"`
	TempMax     int      `json:"tempMax"`
	Humidity    int      `json:"humidity"`
	Pressure    int      `json:"pressure"`
	SeaLevel    *int     `json:"seaLevel"`
	GroundLevel *int     `json:"groundLevel"`
	CloudCover  int      `json:"cloudCover"`
	Visibility  *float64 `json:"visibility"`

	// LocalTime is capture time shifted by the location's UTC offset. It is
	// derived from the inputs only, never from a wall clock read at render time.
	LocalTime time.Time `json:"localTime"`

	Weather       Condition     `json:"weather"`
	Wind          Wind          `json:"wind"`
	Precipitation Precipitation `json:"precipitation"`
	Coordinates   Coordinates   `json:"coordinates"`
	Sun           Sun           `json:"sun"`

	// TimezoneOffsetSec is the location's offset from UTC in seconds.
	TimezoneOffsetSec int `json:"timezone"`

	// DataTimestamp is the provider's observation time in UTC.
	DataTimestamp time.Time `json:"dataTimestamp"`

	Units UnitLabels `json:"units"`
	Meta  Meta       `json:"meta"`
}
