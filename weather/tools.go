package weather

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/TolaniSilas/agents"
	"github.com/TolaniSilas/agents/llm"
)

const (
	GetLatLngToolName  = "get_lat_lng"
	GetWeatherToolName = "get_weather"
)

type GetLatLngParams struct {
	LocationDescription string `json:"location_description"`
}

// GetLatLngTool exposes GetLatLng to the model. An empty geocoding result is
// handed back to the model as a retry request.
type GetLatLngTool struct{}

func (t *GetLatLngTool) Name() string {
	return GetLatLngToolName
}

func (t *GetLatLngTool) Description() string {
	return "Get the latitude and longitude of a location."
}

func (t *GetLatLngTool) Parameters() llm.JSONSchema {
	return llm.JSONSchema{
		"type": "object",
		"properties": map[string]any{
			"location_description": map[string]any{
				"type":        "string",
				"description": "A description of a location, e.g. Lagos, Nigeria",
			},
		},
		"required":             []string{"location_description"},
		"additionalProperties": false,
	}
}

func (t *GetLatLngTool) Execute(ctx context.Context, paramsJSON json.RawMessage, deps *Deps, _ *agents.RunState) (agents.AgentToolResult, error) {
	var params GetLatLngParams
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return agents.AgentToolResult{}, agents.NewToolRetryError("invalid %s arguments: %v", GetLatLngToolName, err)
	}
	coords, err := lookupLatLng(ctx, deps, params)
	if err != nil {
		return agents.AgentToolResult{}, err
	}
	return jsonResult(coords)
}

// lookupLatLng turns an empty description or an empty geocoding result into
// a *agents.ToolRetryError.
func lookupLatLng(ctx context.Context, deps *Deps, params GetLatLngParams) (Coordinates, error) {
	if params.LocationDescription == "" {
		return Coordinates{}, agents.NewToolRetryError("location_description must not be empty")
	}
	coords, err := GetLatLng(ctx, deps, params.LocationDescription)
	if errors.Is(err, ErrLocationNotFound) {
		return Coordinates{}, agents.NewToolRetryError("Could not find the location %q", params.LocationDescription)
	}
	return coords, err
}

// GetWeatherParams holds pointers so a missing coordinate can be told apart
// from zero.
type GetWeatherParams struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
}

func (p GetWeatherParams) coordinates() (Coordinates, error) {
	if p.Latitude == nil || p.Longitude == nil {
		return Coordinates{}, agents.NewToolRetryError("lat and lng are required")
	}
	return Coordinates{Latitude: *p.Latitude, Longitude: *p.Longitude}, nil
}

// GetWeatherTool exposes GetWeather to the model.
type GetWeatherTool struct{}

func (t *GetWeatherTool) Name() string {
	return GetWeatherToolName
}

func (t *GetWeatherTool) Description() string {
	return "Get the current weather at a location."
}

func (t *GetWeatherTool) Parameters() llm.JSONSchema {
	return llm.JSONSchema{
		"type": "object",
		"properties": map[string]any{
			"lat": map[string]any{
				"type":        "number",
				"description": "Latitude of the location",
			},
			"lng": map[string]any{
				"type":        "number",
				"description": "Longitude of the location",
			},
		},
		"required":             []string{"lat", "lng"},
		"additionalProperties": false,
	}
}

func (t *GetWeatherTool) Execute(ctx context.Context, paramsJSON json.RawMessage, deps *Deps, _ *agents.RunState) (agents.AgentToolResult, error) {
	var params GetWeatherParams
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return agents.AgentToolResult{}, agents.NewToolRetryError("invalid %s arguments: %v", GetWeatherToolName, err)
	}
	coords, err := params.coordinates()
	if err != nil {
		return agents.AgentToolResult{}, err
	}

	summary, err := GetWeather(ctx, deps, coords)
	if err != nil {
		return agents.AgentToolResult{}, err
	}

	return jsonResult(summary)
}

func jsonResult(v any) (agents.AgentToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return agents.AgentToolResult{}, err
	}
	return agents.NewTextToolResult(string(b)), nil
}
