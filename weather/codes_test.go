package weather_test

import (
	"testing"

	"github.com/TolaniSilas/agents/weather"
)

func TestDescribe(t *testing.T) {
	known := map[int]string{
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
	for code, want := range known {
		if got := weather.Describe(code); got != want {
			t.Errorf("Describe(%d) = %q, want %q", code, got, want)
		}
	}

	for _, code := range []int{0, -1, 999, 1002, 3000, 9999} {
		if got := weather.Describe(code); got != weather.UnknownCondition {
			t.Errorf("Describe(%d) = %q, want %q", code, got, weather.UnknownCondition)
		}
	}
}
