package weather

// UnknownCondition is the label of any code missing from the table.
const UnknownCondition = "Unknown"

// weatherCodes maps tomorrow.io weather codes to readable labels.
var weatherCodes = map[int]string{
	1000: "Clear, Sunny",
	1100: "Mostly Clear",
	1101: "Partly Cloudy",
	1102: "Mostly Cloudy",
	1001: "Cloudy",
	2000: "Fog",
	2100: "Light Fog",
	4000: "Drizzle",
	4001: "Rain",
	4200: "Light Rain",
	4201: "Heavy Rain",
	5000: "Snow",
	5001: "Flurries",
	5100: "Light Snow",
	5101: "Heavy Snow",
	6000: "Freezing Drizzle",
	6001: "Freezing Rain",
	6200: "Light Freezing Rain",
	6201: "Heavy Freezing Rain",
	7000: "Ice Pellets",
	7101: "Heavy Ice Pellets",
	7102: "Light Ice Pellets",
	8000: "Thunderstorm",
}

// Describe returns the label for a weather code, or UnknownCondition.
func Describe(code int) string {
	if label, ok := weatherCodes[code]; ok {
		return label
	}
	return UnknownCondition
}
