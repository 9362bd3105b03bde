// Package weather answers weather questions by chaining a geocoding lookup and
// a current-conditions lookup behind an agent.
package weather

import "net/http"

const (
	DefaultGeocodeEndpoint = "https://geocode.maps.co/search"
	DefaultWeatherEndpoint = "https://api.tomorrow.io/v4/weather/realtime"
)

// Deps is the dependency bundle handed to every tool call. It is built once
// per invocation and never mutated afterwards.
type Deps struct {
	// Client is used for every outbound call. Nil means http.DefaultClient.
	Client *http.Client
	// WeatherAPIKey is the tomorrow.io key. Empty means placeholder weather.
	WeatherAPIKey string
	// GeoAPIKey is the geocode.maps.co key. Empty means placeholder coordinates.
	GeoAPIKey string
	// GeocodeEndpoint overrides DefaultGeocodeEndpoint.
	GeocodeEndpoint string
	// WeatherEndpoint overrides DefaultWeatherEndpoint.
	WeatherEndpoint string
}

func (d *Deps) geocodeEndpoint() string {
	if d.GeocodeEndpoint != "" {
		return d.GeocodeEndpoint
	}
	return DefaultGeocodeEndpoint
}

func (d *Deps) weatherEndpoint() string {
	if d.WeatherEndpoint != "" {
		return d.WeatherEndpoint
	}
	return DefaultWeatherEndpoint
}

// Offline reports whether both lookups answer with placeholder data.
func (d *Deps) Offline() bool {
	return d.GeoAPIKey == "" && d.WeatherAPIKey == ""
}
