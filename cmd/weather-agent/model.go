package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/TolaniSilas/agents/llm"
	"github.com/TolaniSilas/agents/llm/openai"
	"github.com/TolaniSilas/agents/weather"
)

var errMissingAPIKey = errors.New("API key is not set")

// newModel builds the model named by a "provider:model" spec. Supported
// providers are groq, openai and offline.
func newModel(spec string, getenv func(string) string, client *http.Client) (llm.LanguageModel, error) {
	provider, modelID, _ := strings.Cut(spec, ":")
	switch provider {
	case "groq":
		apiKey := getenv(envGroqAPIKey)
		if apiKey == "" {
			return nil, fmt.Errorf("%s: %w", envGroqAPIKey, errMissingAPIKey)
		}
		return openai.NewChatModel(modelID, openai.ChatModelOptions{
			BaseURL:    openai.GroqBaseURL,
			APIKey:     apiKey,
			HTTPClient: client,
			Provider:   "groq",
		}), nil

	case "openai":
		apiKey := getenv(envOpenAIAPIKey)
		if apiKey == "" {
			return nil, fmt.Errorf("%s: %w", envOpenAIAPIKey, errMissingAPIKey)
		}
		return openai.NewChatModel(modelID, openai.ChatModelOptions{
			APIKey:     apiKey,
			HTTPClient: client,
		}), nil

	case weather.OfflineProvider:
		return weather.NewOfflineModel(), nil

	default:
		return nil, fmt.Errorf("unsupported model provider %q in %q", provider, spec)
	}
}
