package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/TolaniSilas/agents/internal/ptr"
	"github.com/TolaniSilas/agents/llm"
	"github.com/google/uuid"
)

const (
	OfflineProvider = "offline"
	OfflineModelID  = "weather-policy"
)

var (
	locationKeyword = regexp.MustCompile(`(?i)\b(?:in|at|for|near)\s+`)
	sentenceEnd     = regexp.MustCompile(`[?.!]+`)
)

// OfflineModel is a deterministic llm.LanguageModel that drives the two-step
// lookup without a remote model: resolve the location, fetch the weather,
// then phrase the answer. When geocoding asks for a retry it tries shorter
// forms of the location; the agent's retry ceiling decides when to give up.
type OfflineModel struct{}

// NewOfflineModel returns the deterministic weather policy.
func NewOfflineModel() *OfflineModel {
	return &OfflineModel{}
}

func (m *OfflineModel) Provider() string { return OfflineProvider }

func (m *OfflineModel) ModelID() string { return OfflineModelID }

func (m *OfflineModel) Generate(_ context.Context, input *llm.LanguageModelInput) (*llm.ModelResponse, error) {
	if input == nil {
		return nil, llm.NewInvalidInputError("input is required")
	}

	conv, err := readConversation(input.Messages)
	if err != nil {
		return nil, err
	}

	last := conv.lastResult
	switch {
	case last == nil:
		return toolCall(GetLatLngToolName, GetLatLngParams{LocationDescription: conv.candidates[0]})

	case last.ToolName == GetLatLngToolName && last.IsError:
		next := conv.candidates[min(conv.geocodeCalls, len(conv.candidates)-1)]
		return toolCall(GetLatLngToolName, GetLatLngParams{LocationDescription: next})

	case last.ToolName == GetLatLngToolName:
		var coords Coordinates
		if err := json.Unmarshal([]byte(llm.JoinText(last.Content)), &coords); err != nil {
			return nil, llm.NewInvariantError(OfflineProvider, fmt.Sprintf("unreadable %s result: %v", GetLatLngToolName, err))
		}
		return toolCall(GetWeatherToolName, GetWeatherParams{Latitude: ptr.To(coords.Latitude), Longitude: ptr.To(coords.Longitude)})

	case last.ToolName == GetWeatherToolName && !last.IsError:
		var summary Summary
		if err := json.Unmarshal([]byte(llm.JoinText(last.Content)), &summary); err != nil {
			return nil, llm.NewInvariantError(OfflineProvider, fmt.Sprintf("unreadable %s result: %v", GetWeatherToolName, err))
		}
		return textResponse(composeAnswer(conv, summary)), nil

	default:
		return textResponse(fmt.Sprintf("Sorry, I could not get the weather for %s right now.", conv.place)), nil
	}
}

// conversation is what the policy needs from the messages after the last
// user message.
type conversation struct {
	query string
	// candidates are the location descriptions to try, most specific first.
	candidates []string
	// place is the description of the last geocoding call, or the first candidate.
	place        string
	geocodeCalls int
	lastResult   *llm.ToolResultPart
	coords       *Coordinates
}

func readConversation(messages []llm.Message) (*conversation, error) {
	start := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].UserMessage != nil {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, llm.NewInvalidInputError("no user message to answer")
	}

	conv := &conversation{query: llm.JoinText(messages[start].UserMessage.Content)}
	conv.candidates = reformulations(extractLocation(conv.query))
	conv.place = conv.candidates[0]

	for _, message := range messages[start+1:] {
		switch {
		case message.AssistantMessage != nil:
			for _, part := range message.AssistantMessage.Content {
				if part.ToolCallPart == nil || part.ToolCallPart.ToolName != GetLatLngToolName {
					continue
				}
				conv.geocodeCalls++
				var params GetLatLngParams
				if err := json.Unmarshal(part.ToolCallPart.Args, &params); err == nil && params.LocationDescription != "" {
					conv.place = params.LocationDescription
				}
			}
		case message.ToolMessage != nil:
			for _, part := range message.ToolMessage.Content {
				if part.ToolResultPart == nil {
					continue
				}
				conv.lastResult = part.ToolResultPart
				if part.ToolResultPart.ToolName == GetLatLngToolName && !part.ToolResultPart.IsError {
					var coords Coordinates
					if err := json.Unmarshal([]byte(llm.JoinText(part.ToolResultPart.Content)), &coords); err == nil {
						conv.coords = &coords
					}
				}
			}
		}
	}

	return conv, nil
}

// extractLocation returns the text after the last "in", "at", "for" or
// "near" of the first sentence holding one, or the whole query.
func extractLocation(query string) string {
	for _, sentence := range sentenceEnd.Split(query, -1) {
		matches := locationKeyword.FindAllStringIndex(sentence, -1)
		if len(matches) == 0 {
			continue
		}
		if location := strings.TrimSpace(sentence[matches[len(matches)-1][1]:]); location != "" {
			return location
		}
	}

	if location := strings.TrimSpace(strings.TrimRight(query, "?.! ")); location != "" {
		return location
	}
	return query
}

// reformulations lists the location followed by shorter forms of it: the
// first comma-separated segment and the last word.
func reformulations(location string) []string {
	candidates := []string{location}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		for _, c := range candidates {
			if strings.EqualFold(c, s) {
				return
			}
		}
		candidates = append(candidates, s)
	}

	if first, _, ok := strings.Cut(location, ","); ok {
		add(first)
	}
	if fields := strings.Fields(strings.ReplaceAll(location, ",", " ")); len(fields) > 1 {
		add(fields[len(fields)-1])
	}
	return candidates
}

func composeAnswer(conv *conversation, summary Summary) string {
	answer := fmt.Sprintf("The weather in %s is %s and %s.", conv.place, summary.Description, summary.Temperature)
	if !strings.Contains(strings.ToLower(conv.query), "json") {
		return answer
	}

	payload := map[string]any{
		"location":    conv.place,
		"temperature": summary.Temperature,
		"description": summary.Description,
	}
	if conv.coords != nil {
		payload["lat"] = conv.coords.Latitude
		payload["lng"] = conv.coords.Longitude
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return answer
	}
	return answer + "\n" + string(b)
}

func toolCall(name string, params any) (*llm.ModelResponse, error) {
	args, err := json.Marshal(params)
	if err != nil {
		return nil, llm.NewInvariantError(OfflineProvider, err.Error())
	}
	return &llm.ModelResponse{
		Content: []llm.Part{llm.NewToolCallPart("call_"+uuid.NewString(), name, args)},
	}, nil
}

func textResponse(text string) *llm.ModelResponse {
	return &llm.ModelResponse{Content: []llm.Part{llm.NewTextPart(text)}}
}
