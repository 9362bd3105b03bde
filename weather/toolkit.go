package weather

import (
	"context"
	"strings"

	"github.com/TolaniSilas/agents"
)

// Toolkit provides the lookup tools for a run. Its system prompt tells the
// model which lookups answer with placeholder data.
type Toolkit struct{}

func (Toolkit) CreateSession(_ context.Context, deps *Deps) (agents.ToolkitSession[*Deps], error) {
	return newToolkitSession(deps), nil
}

type toolkitSession struct {
	prompt *string
	tools  []agents.AgentTool[*Deps]
}

func newToolkitSession(deps *Deps) *toolkitSession {
	s := &toolkitSession{
		tools: []agents.AgentTool[*Deps]{&GetLatLngTool{}, &GetWeatherTool{}},
	}

	var notes []string
	if deps == nil || deps.GeoAPIKey == "" {
		notes = append(notes, "No geocoding key is configured: get_lat_lng returns fixed placeholder coordinates.")
	}
	if deps == nil || deps.WeatherAPIKey == "" {
		notes = append(notes, "No weather key is configured: get_weather returns placeholder weather. Report it as given.")
	}
	if len(notes) > 0 {
		prompt := strings.Join(notes, "\n")
		s.prompt = &prompt
	}

	return s
}

func (s *toolkitSession) SystemPrompt() *string {
	return s.prompt
}

func (s *toolkitSession) Tools() []agents.AgentTool[*Deps] {
	return s.tools
}

func (s *toolkitSession) Close(context.Context) error { return nil }
