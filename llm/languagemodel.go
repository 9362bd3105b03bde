package llm

import "context"

// LanguageModel generates a response for the given input. Implementations
// include remote chat-completion models and deterministic local policies.
type LanguageModel interface {
	Provider() string
	ModelID() string
	Generate(ctx context.Context, input *LanguageModelInput) (*ModelResponse, error)
}
