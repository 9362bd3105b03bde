package weather

import (
	"context"
	"fmt"
	"net/url"

	"github.com/TolaniSilas/agents/internal/clientutils"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
)

// PlaceholderSummary is returned when no weather key is configured.
var PlaceholderSummary = Summary{Temperature: "20°C", Description: "Sunny"}

// Summary is the simplified current weather at a location.
type Summary struct {
	Temperature string `json:"temperature"`
	Description string `json:"description"`
}

// GetWeather fetches the current apparent temperature and condition at the
// given coordinates, in metric units.
//
// Without a weather key it returns PlaceholderSummary and makes no request.
func GetWeather(ctx context.Context, deps *Deps, coords Coordinates) (Summary, error) {
	placeholder := deps.WeatherAPIKey == ""
	return traceLookup(ctx, "forecast", placeholder, func(ctx context.Context) (Summary, error) {
		if placeholder {
			return PlaceholderSummary, nil
		}

		body, err := clientutils.DoGet(ctx, deps.Client, clientutils.GetRequestConfig{
			URL: deps.weatherEndpoint(),
			Query: url.Values{
				"apikey":   {deps.WeatherAPIKey},
				"location": {coords.String()},
				"units":    {"metric"},
			},
		})
		if err != nil {
			return Summary{}, fmt.Errorf("weather at %s: %w", coords, err)
		}

		summary, err := parseWeatherResponse(body)
		if err != nil {
			return Summary{}, fmt.Errorf("weather at %s: %w", coords, err)
		}
		return summary, nil
	},
		attribute.Float64("weather.latitude", coords.Latitude),
		attribute.Float64("weather.longitude", coords.Longitude),
	)
}

func parseWeatherResponse(body []byte) (Summary, error) {
	if !gjson.ValidBytes(body) {
		return Summary{}, fmt.Errorf("invalid JSON response")
	}

	values := gjson.GetManyBytes(body, "data.values.temperatureApparent", "data.values.weatherCode")
	temperature, code := values[0], values[1]
	if temperature.Type != gjson.Number {
		return Summary{}, fmt.Errorf("temperatureApparent missing from response")
	}
	if code.Type != gjson.Number {
		return Summary{}, fmt.Errorf("weatherCode missing from response")
	}

	return Summary{
		Temperature: FormatTemperature(temperature.Num),
		Description: Describe(int(code.Int())),
	}, nil
}

// FormatTemperature renders a Celsius value rounded to zero decimals, e.g. "21°C".
func FormatTemperature(celsius float64) string {
	s := fmt.Sprintf("%.0f", celsius)
	if s == "-0" {
		s = "0"
	}
	return s + "°C"
}
