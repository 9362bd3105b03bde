package weather

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/TolaniSilas/agents/llm"
	"github.com/google/go-cmp/cmp"
)

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"What is the weather like in Lagos?", "Lagos"},
		{"Weather at Ikeja, Lagos, Nigeria.", "Ikeja, Lagos, Nigeria"},
		{"forecast for New York please!", "New York please"},
		{"Is it raining near the Eiffel Tower?", "the Eiffel Tower"},
		{"London", "London"},
		{"In Paris today is it hot in Nice?", "Nice"},
		{"What is the weather like in Lagos? Answer in JSON.", "Lagos"},
	}
	for _, tt := range tests {
		if got := extractLocation(tt.query); got != tt.want {
			t.Errorf("extractLocation(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestReformulations(t *testing.T) {
	tests := []struct {
		location string
		want     []string
	}{
		{"Lagos", []string{"Lagos"}},
		{"Ikeja, Lagos", []string{"Ikeja, Lagos", "Ikeja", "Lagos"}},
		{"New York", []string{"New York", "York"}},
		{"Paris, France", []string{"Paris, France", "Paris", "France"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, reformulations(tt.location)); diff != "" {
			t.Errorf("reformulations(%q) mismatch (-want +got):\n%s", tt.location, diff)
		}
	}
}

func generate(t *testing.T, messages ...llm.Message) *llm.ModelResponse {
	t.Helper()
	resp, err := NewOfflineModel().Generate(context.Background(), &llm.LanguageModelInput{Messages: messages})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return resp
}

func onlyToolCall(t *testing.T, resp *llm.ModelResponse) *llm.ToolCallPart {
	t.Helper()
	if len(resp.Content) != 1 || resp.Content[0].ToolCallPart == nil {
		t.Fatalf("expected a single tool call, got %+v", resp.Content)
	}
	return resp.Content[0].ToolCallPart
}

func TestOfflineModel(t *testing.T) {
	user := llm.NewUserMessage(llm.NewTextPart("What is the weather like in Ikeja, Lagos? Answer in JSON."))
	call := func(id, name, args string) llm.Message {
		return llm.NewAssistantMessage(llm.NewToolCallPart(id, name, json.RawMessage(args)))
	}
	result := func(id, name, text string, isError bool) llm.Message {
		return llm.NewToolMessage(llm.NewToolResultPart(id, name, []llm.Part{llm.NewTextPart(text)}, isError))
	}

	t.Run("starts with geocoding", func(t *testing.T) {
		tc := onlyToolCall(t, generate(t, user))
		if tc.ToolName != GetLatLngToolName || string(tc.Args) != `{"location_description":"Ikeja, Lagos"}` {
			t.Errorf("unexpected call %s %s", tc.ToolName, tc.Args)
		}
		if !strings.HasPrefix(tc.ToolCallID, "call_") {
			t.Errorf("unexpected tool call id %q", tc.ToolCallID)
		}
	})

	t.Run("reformulates after a failed lookup", func(t *testing.T) {
		tc := onlyToolCall(t, generate(t,
			user,
			call("c1", GetLatLngToolName, `{"location_description":"Ikeja, Lagos"}`),
			result("c1", GetLatLngToolName, "Could not find the location\n\nFix the errors and try again.", true),
		))
		if string(tc.Args) != `{"location_description":"Ikeja"}` {
			t.Errorf("unexpected args %s", tc.Args)
		}
	})

	t.Run("fetches weather for the coordinates", func(t *testing.T) {
		tc := onlyToolCall(t, generate(t,
			user,
			call("c1", GetLatLngToolName, `{"location_description":"Ikeja, Lagos"}`),
			result("c1", GetLatLngToolName, `{"lat":6.6,"lng":3.35}`, false),
		))
		if tc.ToolName != GetWeatherToolName || string(tc.Args) != `{"lat":6.6,"lng":3.35}` {
			t.Errorf("unexpected call %s %s", tc.ToolName, tc.Args)
		}
	})

	t.Run("composes the answer with JSON when asked", func(t *testing.T) {
		resp := generate(t,
			user,
			call("c1", GetLatLngToolName, `{"location_description":"Ikeja, Lagos"}`),
			result("c1", GetLatLngToolName, "not found", true),
			call("c2", GetLatLngToolName, `{"location_description":"Ikeja"}`),
			result("c2", GetLatLngToolName, `{"lat":6.6,"lng":3.35}`, false),
			call("c3", GetWeatherToolName, `{"lat":6.6,"lng":3.35}`),
			result("c3", GetWeatherToolName, `{"temperature":"20°C","description":"Sunny"}`, false),
		)

		text := llm.JoinText(resp.Content)
		answer, payload, ok := strings.Cut(text, "\n")
		if !ok {
			t.Fatalf("expected a JSON payload after the answer, got %q", text)
		}
		if answer != "The weather in Ikeja is Sunny and 20°C." {
			t.Errorf("unexpected answer %q", answer)
		}
		var got map[string]any
		if err := json.Unmarshal([]byte(payload), &got); err != nil {
			t.Fatalf("payload is not JSON: %v", err)
		}
		want := map[string]any{"location": "Ikeja", "temperature": "20°C", "description": "Sunny", "lat": 6.6, "lng": 3.35}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("payload mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("apologises when the weather is unavailable", func(t *testing.T) {
		resp := generate(t,
			llm.NewUserMessage(llm.NewTextPart("Weather in Lagos?")),
			call("c1", GetWeatherToolName, `{"lat":1,"lng":2}`),
			result("c1", GetWeatherToolName, "unavailable", true),
		)
		if got := llm.JoinText(resp.Content); got != "Sorry, I could not get the weather for Lagos right now." {
			t.Errorf("unexpected answer %q", got)
		}
	})

	t.Run("requires a user message", func(t *testing.T) {
		_, err := NewOfflineModel().Generate(context.Background(), &llm.LanguageModelInput{})
		var lmErr *llm.LanguageModelError
		if !errors.As(err, &lmErr) || lmErr.Kind != llm.InvalidInput {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})
}
