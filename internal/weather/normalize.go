package weather

import (
	"math"
	"time"
)

const metersPerMile = 1609.34

// Normalize maps a raw provider reading into the canonical WeatherRecord for
// the requested unit system. When the reading is already expressed in the
// requested system only labels are attached; numeric conversion happens only
// for providers without native support for that system. The result depends
// solely on the inputs, so normalizing the same reading with the same
// capturedAt yields identical output.
func Normalize(raw RawConditions, q Query, capturedAt time.Time) WeatherRecord {
	offset := time.Duration(raw.TimezoneOffsetSec) * time.Second

	rec := WeatherRecord{
		City:        raw.City,
		Country:     raw.Country,
		Temperature: roundWhole(convertTemp(raw.Temp, raw.UnitSystem, q.Units)),
		FeelsLike:   roundWhole(convertTemp(raw.FeelsLike, raw.UnitSystem, q.Units)),
		TempMin:     roundWhole(convertTemp(raw.TempMin, raw.UnitSystem, q.Units)),
		TempMax:     roundWhole(convertTemp(raw.TempMax, raw.UnitSystem, q.Units)),
		Humidity:    raw.HumidityPct,
		Pressure:    raw.PressureHpa,
		SeaLevel:    raw.SeaLevelHpa,
		GroundLevel: raw.GroundLevelHpa,
		CloudCover:  raw.CloudCoverPct,

		LocalTime: capturedAt.UTC().Add(offset),

		Wind: Wind{
			Speed:     round2(convertWind(raw.WindSpeed, raw.UnitSystem, q.Units)),
			Direction: raw.WindDirectionDeg,
		},
		Coordinates: Coordinates{Lat: raw.Lat, Lon: raw.Lon},
		Sun: Sun{
			Sunrise: localInstant(raw.SunriseUnix, raw.TimezoneOffsetSec),
			Sunset:  localInstant(raw.SunsetUnix, raw.TimezoneOffsetSec),
		},

		TimezoneOffsetSec: raw.TimezoneOffsetSec,
		DataTimestamp:     time.Unix(raw.ObservedAtUnix, 0).UTC(),

		Units: LabelsFor(q.Units),
		Meta: Meta{
			RequestedUnits:    q.Units,
			RequestedLanguage: q.Language,
			APICallsUsed:      raw.APICalls,
			Source:            raw.Source,
		},
	}

	if raw.WindGust != nil {
		g := round2(convertWind(*raw.WindGust, raw.UnitSystem, q.Units))
		rec.Wind.Gust = &g
	}

	// Visibility arrives in meters regardless of the provider's unit system.
	if raw.VisibilityMeters != nil {
		var v float64
		if q.Units == UnitsImperial {
			v = round2(*raw.VisibilityMeters / metersPerMile)
		} else {
			v = round2(*raw.VisibilityMeters / 1000)
		}
		rec.Visibility = &v
	}

	rec.Precipitation = Precipitation{
		Rain: normalizeAccumulation(raw.Rain),
		Snow: normalizeAccumulation(raw.Snow),
	}

	if raw.ConditionDescription != "" {
		rec.Weather = Condition{
			ID:          raw.ConditionCode,
			Main:        raw.ConditionMain,
			Description: raw.ConditionDescription,
			Icon:        raw.ConditionIcon,
		}
	} else {
		rec.Weather = conditionForCode(raw.ConditionCode)
	}

	return rec
}

func normalizeAccumulation(raw *RawAccumulation) *Accumulation {
	if raw == nil {
		return nil
	}
	acc := &Accumulation{OneHour: raw.OneHour}
	if raw.ThreeHour != nil {
		th := *raw.ThreeHour
		acc.ThreeHour = &th
	}
	return acc
}

// localInstant shifts a provider-supplied UTC epoch by the timezone offset.
func localInstant(unix int64, offsetSec int) time.Time {
	return time.Unix(unix+int64(offsetSec), 0).UTC()
}

// convertTemp converts a temperature between unit systems via Celsius.
func convertTemp(v float64, from, to Units) float64 {
	if from == to {
		return v
	}

	c := v
	switch from {
	case UnitsImperial:
		c = (v - 32) * 5 / 9
	case UnitsStandard:
		c = v - 273.15
	}

	switch to {
	case UnitsImperial:
		return c*9/5 + 32
	case UnitsStandard:
		return c + 273.15
	default:
		return c
	}
}

// convertWind converts a wind speed between unit systems. Metric and standard
// both use m/s; imperial uses mph.
func convertWind(v float64, from, to Units) float64 {
	const mphPerMS = 2.236936

	fromImperial := from == UnitsImperial
	toImperial := to == UnitsImperial

	switch {
	case fromImperial == toImperial:
		return v
	case toImperial:
		return v * mphPerMS
	default:
		return v / mphPerMS
	}
}

func roundWhole(v float64) int {
	return int(math.Round(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
