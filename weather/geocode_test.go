package weather_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/TolaniSilas/agents/internal/clientutils"
	"github.com/TolaniSilas/agents/weather"
	"github.com/google/go-cmp/cmp"
)

func TestGetLatLng_PlaceholderWithoutKey(t *testing.T) {
	deps := &weather.Deps{Client: offlineClient(t), WeatherAPIKey: "weather-key"}

	for _, description := range []string{"Lagos", "", "somewhere that does not exist"} {
		got, err := weather.GetLatLng(context.Background(), deps, description)
		if err != nil {
			t.Fatalf("GetLatLng(%q): %v", description, err)
		}
		if diff := cmp.Diff(weather.Coordinates{Latitude: 51.1, Longitude: -0.1}, got); diff != "" {
			t.Errorf("coordinates mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestGetLatLng(t *testing.T) {
	tests := []struct {
		name string
		body string
		want weather.Coordinates
	}{
		{
			name: "string coordinates",
			body: `[{"place_id":1,"lat":"6.4550575","lon":"3.3941795","display_name":"Lagos, Nigeria"},{"lat":"1","lon":"2"}]`,
			want: weather.Coordinates{Latitude: 6.4550575, Longitude: 3.3941795},
		},
		{
			name: "numeric coordinates",
			body: `[{"lat":48.8566,"lon":2.3522}]`,
			want: weather.Coordinates{Latitude: 48.8566, Longitude: 2.3522},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, server := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			deps := &weather.Deps{Client: server.Client(), GeoAPIKey: "geo-key", GeocodeEndpoint: server.URL}

			got, err := weather.GetLatLng(context.Background(), deps, "Lagos, Nigeria")
			if err != nil {
				t.Fatalf("GetLatLng: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("coordinates mismatch (-want +got):\n%s", diff)
			}

			q := api.calls()[0].URL.Query()
			if q.Get("q") != "Lagos, Nigeria" || q.Get("api_key") != "geo-key" {
				t.Errorf("unexpected query %v", q)
			}
		})
	}
}

func TestGetLatLng_EmptyResultIsRetryable(t *testing.T) {
	_, server := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	deps := &weather.Deps{Client: server.Client(), GeoAPIKey: "geo-key", GeocodeEndpoint: server.URL}

	_, err := weather.GetLatLng(context.Background(), deps, "Atlantis")
	if !errors.Is(err, weather.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
	var statusErr *clientutils.StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("empty result must not be a status error: %v", err)
	}
}

func TestGetLatLng_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"invalid key"}`},
		{"rate limited", http.StatusTooManyRequests, ``},
		{"not an array", http.StatusOK, `{"lat":"1","lon":"2"}`},
		{"invalid json", http.StatusOK, `[{"lat":`},
		{"missing lon", http.StatusOK, `[{"lat":"1"}]`},
		{"non numeric lat", http.StatusOK, `[{"lat":"north","lon":"2"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, server := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			deps := &weather.Deps{Client: server.Client(), GeoAPIKey: "geo-key", GeocodeEndpoint: server.URL}

			_, err := weather.GetLatLng(context.Background(), deps, "Lagos")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if errors.Is(err, weather.ErrLocationNotFound) {
				t.Errorf("expected a fatal error, got a retryable one: %v", err)
			}

			var statusErr *clientutils.StatusError
			if isStatus := errors.As(err, &statusErr); isStatus != (tt.status != http.StatusOK) {
				t.Errorf("status error = %v for status %d: %v", isStatus, tt.status, err)
			}
		})
	}
}
