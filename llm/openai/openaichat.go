// Package openai talks to the chat completions API of OpenAI and of
// providers that mirror it, such as Groq.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/TolaniSilas/agents/internal/clientutils"
	"github.com/TolaniSilas/agents/internal/ptr"
	"github.com/TolaniSilas/agents/internal/tracing"
	"github.com/TolaniSilas/agents/llm"
	"github.com/TolaniSilas/agents/llm/openai/openaiapi"
)

const (
	Provider       = "openai"
	DefaultBaseURL = "https://api.openai.com/v1"
	GroqBaseURL    = "https://api.groq.com/openai/v1"
)

type ChatModelOptions struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	// Provider is the name the model reports, "openai" when empty.
	Provider string
}

// ChatModel is an llm.LanguageModel backed by POST {BaseURL}/chat/completions.
type ChatModel struct {
	modelID string
	opts    ChatModelOptions
}

func NewChatModel(modelID string, opts ChatModelOptions) *ChatModel {
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Provider == "" {
		opts.Provider = Provider
	}
	return &ChatModel{modelID: modelID, opts: opts}
}

func (m *ChatModel) Provider() string { return m.opts.Provider }
func (m *ChatModel) ModelID() string  { return m.modelID }

func (m *ChatModel) Generate(ctx context.Context, input *llm.LanguageModelInput) (*llm.ModelResponse, error) {
	return tracing.TraceGenerate(ctx, m.opts.Provider, m.modelID, input, func(ctx context.Context) (*llm.ModelResponse, error) {
		req, err := m.buildRequest(input)
		if err != nil {
			return nil, err
		}

		completion, err := clientutils.DoJSON[openaiapi.ChatCompletion](ctx, m.opts.HTTPClient, clientutils.JSONRequestConfig{
			URL:     m.opts.BaseURL + "/chat/completions",
			Body:    req,
			Headers: map[string]string{"Authorization": "Bearer " + m.opts.APIKey},
		})
		if err != nil {
			var statusErr *clientutils.StatusError
			if errors.As(err, &statusErr) {
				return nil, llm.NewStatusCodeError(statusErr.StatusCode, statusErr.Body)
			}
			return nil, llm.NewTransportError(err)
		}

		return m.parseCompletion(*completion)
	})
}

func (m *ChatModel) buildRequest(input *llm.LanguageModelInput) (*openaiapi.ChatCompletionCreateParams, error) {
	if input == nil {
		return nil, llm.NewInvalidInputError("input is required")
	}

	req := &openaiapi.ChatCompletionCreateParams{
		Model:               m.modelID,
		MaxCompletionTokens: input.MaxTokens,
		Temperature:         input.Temperature,
		TopP:                input.TopP,
		PresencePenalty:     input.PresencePenalty,
		FrequencyPenalty:    input.FrequencyPenalty,
	}

	if input.SystemPrompt != nil && *input.SystemPrompt != "" {
		req.Messages = append(req.Messages, openaiapi.ChatCompletionMessageParam{
			Role:    openaiapi.RoleSystem,
			Content: input.SystemPrompt,
		})
	}
	for i, message := range input.Messages {
		params, err := messageParams(message)
		if err != nil {
			return nil, llm.NewInvalidInputError(fmt.Sprintf("messages[%d]: %v", i, err))
		}
		req.Messages = append(req.Messages, params...)
	}

	for _, tool := range input.Tools {
		schema, err := json.Marshal(tool.Parameters)
		if err != nil {
			return nil, llm.NewInvalidInputError(fmt.Sprintf("tool %s: %v", tool.Name, err))
		}
		req.Tools = append(req.Tools, openaiapi.ChatCompletionTool{
			Type: "function",
			Function: openaiapi.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  schema,
			},
		})
	}
	return req, nil
}

// messageParams maps one message to the API. A tool message becomes one
// param per result since the API takes a single tool_call_id each.
func messageParams(message llm.Message) ([]openaiapi.ChatCompletionMessageParam, error) {
	switch {
	case message.UserMessage != nil:
		for _, part := range message.UserMessage.Content {
			if part.TextPart == nil {
				return nil, fmt.Errorf("user content of type %q is not supported", part.Type())
			}
		}
		return []openaiapi.ChatCompletionMessageParam{{
			Role:    openaiapi.RoleUser,
			Content: ptr.To(llm.JoinText(message.UserMessage.Content)),
		}}, nil

	case message.AssistantMessage != nil:
		param := openaiapi.ChatCompletionMessageParam{Role: openaiapi.RoleAssistant}
		if text := llm.JoinText(message.AssistantMessage.Content); text != "" {
			param.Content = &text
		}
		for _, part := range message.AssistantMessage.Content {
			call := part.ToolCallPart
			if call == nil {
				continue
			}
			args := string(call.Args)
			if args == "" {
				args = "{}"
			}
			param.ToolCalls = append(param.ToolCalls, openaiapi.ChatCompletionMessageToolCall{
				ID:       call.ToolCallID,
				Type:     "function",
				Function: openaiapi.ChatCompletionMessageToolCallFunction{Name: call.ToolName, Arguments: args},
			})
		}
		return []openaiapi.ChatCompletionMessageParam{param}, nil

	case message.ToolMessage != nil:
		params := make([]openaiapi.ChatCompletionMessageParam, 0, len(message.ToolMessage.Content))
		for _, part := range message.ToolMessage.Content {
			result := part.ToolResultPart
			if result == nil {
				return nil, errors.New("tool message holds a non tool-result part")
			}
			params = append(params, openaiapi.ChatCompletionMessageParam{
				Role:       openaiapi.RoleTool,
				ToolCallID: result.ToolCallID,
				Content:    ptr.To(llm.JoinText(result.Content)),
			})
		}
		return params, nil
	}
	return nil, errors.New("message has no role")
}

func (m *ChatModel) parseCompletion(completion openaiapi.ChatCompletion) (*llm.ModelResponse, error) {
	if len(completion.Choices) == 0 {
		return nil, llm.NewInvariantError(m.opts.Provider, "completion has no choices")
	}
	message := completion.Choices[0].Message
	if message.Refusal != nil && *message.Refusal != "" {
		return nil, llm.NewRefusalError(*message.Refusal)
	}

	response := &llm.ModelResponse{}
	if message.Content != nil && *message.Content != "" {
		response.Content = append(response.Content, llm.NewTextPart(*message.Content))
	}
	for _, call := range message.ToolCalls {
		args := json.RawMessage(call.Function.Arguments)
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}
		if !json.Valid(args) {
			return nil, llm.NewInvariantError(m.opts.Provider, fmt.Sprintf("tool call %s has malformed arguments", call.Function.Name))
		}
		response.Content = append(response.Content, llm.NewToolCallPart(call.ID, call.Function.Name, args))
	}

	if usage := completion.Usage; usage != nil {
		response.Usage = &llm.ModelUsage{
			InputTokens:  int(usage.PromptTokens),
			OutputTokens: int(usage.CompletionTokens),
		}
	}
	return response, nil
}
