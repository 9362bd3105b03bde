// Package openaiapi holds the subset of the chat completions wire format the
// chat model needs. Groq serves the same schema.
package openaiapi

import "encoding/json"

// ChatCompletionCreateParams is the body of POST /chat/completions.
type ChatCompletionCreateParams struct {
	Model    string                       `json:"model"`
	Messages []ChatCompletionMessageParam `json:"messages"`
	Tools    []ChatCompletionTool         `json:"tools,omitempty"`

	MaxCompletionTokens *int64   `json:"max_completion_tokens,omitempty"`
	Temperature         *float64 `json:"temperature,omitempty"`
	TopP                *float64 `json:"top_p,omitempty"`
	PresencePenalty     *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty    *float64 `json:"frequency_penalty,omitempty"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ChatCompletionMessageParam is a request message. Content is always sent as
// a plain string.
type ChatCompletionMessageParam struct {
	Role Role `json:"role"`
	// Nil for assistant messages made only of tool calls.
	Content *string `json:"content,omitempty"`
	// Assistant messages only.
	ToolCalls []ChatCompletionMessageToolCall `json:"tool_calls,omitempty"`
	// Tool messages only.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

type ChatCompletionMessageToolCall struct {
	ID       string                                `json:"id"`
	Type     string                                `json:"type"`
	Function ChatCompletionMessageToolCallFunction `json:"function"`
}

type ChatCompletionMessageToolCallFunction struct {
	Name string `json:"name"`
	// Arguments is JSON text written by the model and may be malformed.
	Arguments string `json:"arguments"`
}

type ChatCompletionTool struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

type FunctionDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ChatCompletion is the response body.
type ChatCompletion struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   *CompletionUsage       `json:"usage,omitempty"`
}

type ChatCompletionChoice struct {
	Index        int32                 `json:"index"`
	FinishReason string                `json:"finish_reason"`
	Message      ChatCompletionMessage `json:"message"`
}

type ChatCompletionMessage struct {
	Role      string                          `json:"role"`
	Content   *string                         `json:"content"`
	Refusal   *string                         `json:"refusal,omitempty"`
	ToolCalls []ChatCompletionMessageToolCall `json:"tool_calls,omitempty"`
}

type CompletionUsage struct {
	PromptTokens     uint32 `json:"prompt_tokens"`
	CompletionTokens uint32 `json:"completion_tokens"`
	TotalTokens      uint32 `json:"total_tokens"`
}
