package weather

// wmoConditions maps WMO weather interpretation codes (as returned by
// Open-Meteo) to a description and an icon identifier. Icons follow the
// OpenWeatherMap icon naming so one icon set serves both providers.
var wmoConditions = map[int]Condition{
	0:  {Main: "Clear", Description: "clear sky", Icon: "01d"},
	1:  {Main: "Clear", Description: "mainly clear", Icon: "02d"},
	2:  {Main: "Clouds", Description: "partly cloudy", Icon: "03d"},
	3:  {Main: "Clouds", Description: "overcast", Icon: "04d"},
	45: {Main: "Fog", Description: "fog", Icon: "50d"},
	48: {Main: "Fog", Description: "depositing rime fog", Icon: "50d"},
	51: {Main: "Drizzle", Description: "light drizzle", Icon: "09d"},
	53: {Main: "Drizzle", Description: "moderate drizzle", Icon: "09d"},
	55: {Main: "Drizzle", Description: "dense drizzle", Icon: "09d"},
	56: {Main: "Drizzle", Description: "light freezing drizzle", Icon: "09d"},
	57: {Main: "Drizzle", Description: "dense freezing drizzle", Icon: "09d"},
	61: {Main: "Rain", Description: "slight rain", Icon: "10d"},
	63: {Main: "Rain", Description: "moderate rain", Icon: "10d"},
	65: {Main: "Rain", Description: "heavy rain", Icon: "10d"},
	66: {Main: "Rain", Description: "light freezing rain", Icon: "10d"},
	67: {Main: "Rain", Description: "heavy freezing rain", Icon: "10d"},
	71: {Main: "Snow", Description: "slight snowfall", Icon: "13d"},
	73: {Main: "Snow", Description: "moderate snowfall", Icon: "13d"},
	75: {Main: "Snow", Description: "heavy snowfall", Icon: "13d"},
	77: {Main: "Snow", Description: "snow grains", Icon: "13d"},
	80: {Main: "Rain", Description: "slight rain showers", Icon: "09d"},
	81: {Main: "Rain", Description: "moderate rain showers", Icon: "09d"},
	82: {Main: "Rain", Description: "violent rain showers", Icon: "09d"},
	85: {Main: "Snow", Description: "slight snow showers", Icon: "13d"},
	86: {Main: "Snow", Description: "heavy snow showers", Icon: "13d"},
	95: {Main: "Thunderstorm", Description: "thunderstorm", Icon: "11d"},
	96: {Main: "Thunderstorm", Description: "thunderstorm with slight hail", Icon: "11d"},
	99: {Main: "Thunderstorm", Description: "thunderstorm with heavy hail", Icon: "11d"},
}

// unknownCondition is the fallback for codes outside the table. Unknown codes
// never produce an error.
var unknownCondition = Condition{
	Main:        "Unknown",
	Description: "unknown conditions",
	Icon:        "na",
}

// conditionForCode looks up a WMO code, falling back to unknownCondition.
// The returned condition carries the original code as its ID.
func conditionForCode(code int) Condition {
	cond, ok := wmoConditions[code]
	if !ok {
		cond = unknownCondition
	}
	cond.ID = code
	return cond
}
