package weather

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/TolaniSilas/agents/internal/clientutils"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
)

// ErrLocationNotFound is returned when the geocoding service knows no place
// matching the description. Callers may retry with a reformulated description.
var ErrLocationNotFound = errors.New("location not found")

// PlaceholderCoordinates is returned when no geocoding key is configured.
var PlaceholderCoordinates = Coordinates{Latitude: 51.1, Longitude: -0.1}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// GetLatLng resolves a free-text location description to coordinates.
//
// Without a geocoding key it returns PlaceholderCoordinates and makes no
// request. An empty result list yields an error wrapping ErrLocationNotFound.
// Any other failure, including a non-2xx status, is fatal.
func GetLatLng(ctx context.Context, deps *Deps, description string) (Coordinates, error) {
	placeholder := deps.GeoAPIKey == ""
	return traceLookup(ctx, "geocode", placeholder, func(ctx context.Context) (Coordinates, error) {
		if placeholder {
			return PlaceholderCoordinates, nil
		}

		body, err := clientutils.DoGet(ctx, deps.Client, clientutils.GetRequestConfig{
			URL: deps.geocodeEndpoint(),
			Query: url.Values{
				"q":       {description},
				"api_key": {deps.GeoAPIKey},
			},
		})
		if err != nil {
			return Coordinates{}, fmt.Errorf("geocode %q: %w", description, err)
		}

		return parseGeocodeResponse(body, description)
	}, attribute.String("weather.location", description))
}

func parseGeocodeResponse(body []byte, description string) (Coordinates, error) {
	if !gjson.ValidBytes(body) {
		return Coordinates{}, fmt.Errorf("geocode %q: invalid JSON response", description)
	}

	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return Coordinates{}, fmt.Errorf("geocode %q: expected a JSON array, got %s", description, result.Type)
	}

	places := result.Array()
	if len(places) == 0 {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", description, ErrLocationNotFound)
	}

	lat, err := coordinate(places[0], "lat")
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", description, err)
	}
	lng, err := coordinate(places[0], "lon")
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", description, err)
	}

	return Coordinates{Latitude: lat, Longitude: lng}, nil
}

// coordinate reads a field that the service encodes either as a number or as
// a numeric string.
func coordinate(place gjson.Result, field string) (float64, error) {
	value := place.Get(field)
	switch value.Type {
	case gjson.Number:
		return value.Num, nil
	case gjson.String:
		f, err := strconv.ParseFloat(value.Str, 64)
		if err != nil {
			return 0, fmt.Errorf("field %s: %w", field, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("field %s missing from first result", field)
	}
}
