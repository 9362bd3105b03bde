package main

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/TolaniSilas/agents/mcp"
	"github.com/TolaniSilas/agents/weather"
)

const (
	envGeoAPIKey     = "GEO_API_KEY"
	envWeatherAPIKey = "WEATHER_API_KEY"
	envGroqAPIKey    = "GROQ_API_KEY"
	envOpenAIAPIKey  = "OPENAI_API_KEY"
	envModel         = "WEATHER_AGENT_MODEL"
	envOTLPEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envMCPURL        = "WEATHER_AGENT_MCP_URL"
	envMCPToken      = "WEATHER_AGENT_MCP_TOKEN"

	defaultModel = "groq:llama-3.3-70b-versatile"
)

type rootFlags struct {
	Model   string
	Debug   bool
	Verbose bool
	Timeout time.Duration

	MCPURL     string
	MCPCommand string
}

// modelSpec picks the model from the flag, then the environment, then the default.
func (f *rootFlags) modelSpec(getenv func(string) string) string {
	if f.Model != "" {
		return f.Model
	}
	if spec := getenv(envModel); spec != "" {
		return spec
	}
	return defaultModel
}

func (f *rootFlags) logLevel() slog.Level {
	if f.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func depsFromEnv(getenv func(string) string, client *http.Client) *weather.Deps {
	return &weather.Deps{
		Client:        client,
		GeoAPIKey:     getenv(envGeoAPIKey),
		WeatherAPIKey: getenv(envWeatherAPIKey),
	}
}

// mcpParams reports the extra tool server to attach, if any. The command flag
// takes precedence over the URL.
func (f *rootFlags) mcpParams(getenv func(string) string, client *http.Client) (mcp.Params, bool) {
	if fields := strings.Fields(f.MCPCommand); len(fields) > 0 {
		return mcp.Params{Command: fields[0], Args: fields[1:]}, true
	}
	url := f.MCPURL
	if url == "" {
		url = getenv(envMCPURL)
	}
	if url == "" {
		return mcp.Params{}, false
	}
	return mcp.Params{URL: url, Authorization: getenv(envMCPToken), HTTPClient: client}, true
}
