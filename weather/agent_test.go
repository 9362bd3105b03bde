package weather_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/TolaniSilas/agents"
	"github.com/TolaniSilas/agents/internal/clientutils"
	"github.com/TolaniSilas/agents/llm"
	"github.com/TolaniSilas/agents/llm/llmtest"
	"github.com/TolaniSilas/agents/weather"
	"github.com/google/go-cmp/cmp"
)

func runOffline(t *testing.T, deps *weather.Deps, query string) (*agents.AgentResponse, error) {
	t.Helper()
	return weather.Run(context.Background(), weather.NewAgent(weather.NewOfflineModel()), deps, query)
}

func toolNames(output []agents.AgentItem) []string {
	var names []string
	for _, item := range output {
		if item.Tool != nil {
			names = append(names, item.Tool.ToolName)
		}
	}
	return names
}

func TestRun_WithoutKeysAnswersFromPlaceholders(t *testing.T) {
	deps := &weather.Deps{Client: offlineClient(t)}

	response, err := runOffline(t, deps, "What is the weather like in Lagos?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := response.Text()
	if !strings.Contains(text, "20°C") || !strings.Contains(text, "Sunny") {
		t.Errorf("expected answer to mention 20°C and Sunny, got %q", text)
	}
	if diff := cmp.Diff([]string{"get_lat_lng", "get_weather"}, toolNames(response.Output)); diff != "" {
		t.Errorf("tool order mismatch (-want +got):\n%s", diff)
	}

	geocode := response.Output[1].Tool
	if got := llm.JoinText(geocode.Output); got != `{"lat":51.1,"lng":-0.1}` {
		t.Errorf("unexpected geocoding output %s", got)
	}
}

func TestRun_UsesLiveLookups(t *testing.T) {
	_, geo := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"lat":"6.4550575","lon":"3.3941795"}]`)
	})
	_, tomorrow := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("location"); got != "6.4550575,3.3941795" {
			t.Errorf("unexpected location %q", got)
		}
		_, _ = io.WriteString(w, `{"data":{"values":{"temperatureApparent":29.5,"weatherCode":4001}}}`)
	})
	deps := &weather.Deps{
		GeoAPIKey:       "geo-key",
		WeatherAPIKey:   "weather-key",
		GeocodeEndpoint: geo.URL,
		WeatherEndpoint: tomorrow.URL,
	}

	response, err := runOffline(t, deps, "What is the weather like in Lagos?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := response.Text(); got != "The weather in Lagos is Rain and 30°C." {
		t.Errorf("unexpected answer %q", got)
	}
}

func TestRun_RetriesReformulatedLocation(t *testing.T) {
	geoAPI, geo := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Lagos" {
			_, _ = io.WriteString(w, `[]`)
			return
		}
		_, _ = io.WriteString(w, `[{"lat":"6.45","lon":"3.39"}]`)
	})
	deps := &weather.Deps{Client: geo.Client(), GeoAPIKey: "geo-key", GeocodeEndpoint: geo.URL}

	response, err := runOffline(t, deps, "What is the weather like in Ikeja, Lagos?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var queries []string
	for _, r := range geoAPI.calls() {
		queries = append(queries, r.URL.Query().Get("q"))
	}
	if diff := cmp.Diff([]string{"Ikeja, Lagos", "Ikeja", "Lagos"}, queries); diff != "" {
		t.Errorf("geocoding queries mismatch (-want +got):\n%s", diff)
	}
	if got := response.Text(); got != "The weather in Lagos is Sunny and 20°C." {
		t.Errorf("unexpected answer %q", got)
	}

	retries := 0
	for _, item := range response.Output {
		if item.Tool != nil && item.Tool.IsError {
			retries++
			if !strings.HasSuffix(llm.JoinText(item.Tool.Output), "Fix the errors and try again.") {
				t.Errorf("unexpected retry prompt %q", llm.JoinText(item.Tool.Output))
			}
		}
	}
	if retries != 2 {
		t.Errorf("expected 2 retries, got %d", retries)
	}
}

func TestRun_FailsAfterRetryCeiling(t *testing.T) {
	geoAPI, geo := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	deps := &weather.Deps{Client: geo.Client(), GeoAPIKey: "geo-key", GeocodeEndpoint: geo.URL}

	_, err := runOffline(t, deps, "What is the weather like in Atlantis?")

	if !agents.IsKind(err, agents.ToolRetriesExceededErrorKind) {
		t.Fatalf("expected tool retries exceeded, got %v", err)
	}
	if got := len(geoAPI.calls()); got != weather.MaxRetries+1 {
		t.Errorf("expected %d geocoding calls, got %d", weather.MaxRetries+1, got)
	}
}

func TestRun_StatusErrorAbortsWithoutRetry(t *testing.T) {
	geoAPI, geo := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid api key"}`)
	})
	deps := &weather.Deps{Client: geo.Client(), GeoAPIKey: "bad-key", GeocodeEndpoint: geo.URL}

	response, err := runOffline(t, deps, "What is the weather like in Lagos?")

	if response != nil {
		t.Errorf("expected no partial answer, got %q", response.Text())
	}
	if !agents.IsKind(err, agents.ToolExecutionErrorKind) {
		t.Fatalf("expected tool execution error, got %v", err)
	}
	var statusErr *clientutils.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected wrapped 401 StatusError, got %v", err)
	}
	if got := len(geoAPI.calls()); got != 1 {
		t.Errorf("expected 1 geocoding call, got %d", got)
	}
}

func TestNewAgent_ConfiguresModelInput(t *testing.T) {
	model := llmtest.NewModel()
	model.Enqueue(llmtest.Respond(llm.ModelResponse{
		Content: []llm.Part{llm.NewTextPart("The weather in Lagos is Sunny and 20°C.")},
	}))

	deps := &weather.Deps{Client: offlineClient(t), WeatherAPIKey: "weather-key"}
	response, err := weather.Run(context.Background(), weather.NewAgent(model), deps, "Weather in Lagos?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if response.Text() != "The weather in Lagos is Sunny and 20°C." {
		t.Errorf("unexpected answer %q", response.Text())
	}

	input := model.Inputs()[0]
	if input.SystemPrompt == nil {
		t.Fatal("expected a system prompt")
	}
	prompt := *input.SystemPrompt
	for _, instruction := range weather.Instructions {
		if !strings.Contains(prompt, instruction) {
			t.Errorf("system prompt misses instruction %q", instruction)
		}
	}
	if !strings.Contains(prompt, "get_lat_lng returns fixed placeholder coordinates") {
		t.Errorf("system prompt should mention placeholder coordinates:\n%s", prompt)
	}
	if strings.Contains(prompt, "get_weather returns placeholder weather") {
		t.Errorf("system prompt should not mention placeholder weather when a key is set:\n%s", prompt)
	}

	var names []string
	for _, tool := range input.Tools {
		names = append(names, tool.Name)
	}
	if diff := cmp.Diff([]string{"get_lat_lng", "get_weather"}, names); diff != "" {
		t.Errorf("tools mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_RejectsNilDeps(t *testing.T) {
	if _, err := weather.Run(context.Background(), weather.NewAgent(weather.NewOfflineModel()), nil, "Lagos"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestRun_RecoversFromMalformedWeatherArguments(t *testing.T) {
	call := func(id, args string) llmtest.Result {
		return llmtest.Respond(llm.ModelResponse{
			Content: []llm.Part{llm.NewToolCallPart(id, "get_weather", json.RawMessage(args))},
		})
	}
	model := llmtest.NewModel(
		call("call_1", `{"lat":"6.45","lng":"3.39"}`),
		call("call_2", `{"lat":6.45}`),
		call("call_3", `{"lat":6.45,"lng":3.39}`),
		llmtest.Respond(llm.ModelResponse{
			Content: []llm.Part{llm.NewTextPart("The weather in Lagos is Sunny and 20°C.")},
		}),
	)

	deps := &weather.Deps{Client: offlineClient(t)}
	response, err := weather.Run(context.Background(), weather.NewAgent(model), deps, "Weather in Lagos?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var isError []bool
	for _, item := range response.Output {
		if item.Tool != nil {
			isError = append(isError, item.Tool.IsError)
		}
	}
	if diff := cmp.Diff([]bool{true, true, false}, isError); diff != "" {
		t.Errorf("tool error flags mismatch (-want +got):\n%s", diff)
	}
	if got := llm.JoinText(response.Output[1].Tool.Output); !strings.HasSuffix(got, "Fix the errors and try again.") {
		t.Errorf("expected a retry prompt, got %q", got)
	}
}
