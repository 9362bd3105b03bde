package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PartType discriminates the variants of Part on the wire.
type PartType string

const (
	PartTypeText       PartType = "text"
	PartTypeToolCall   PartType = "tool-call"
	PartTypeToolResult PartType = "tool-result"
)

// Part is one piece of message content. Exactly one field is set.
type Part struct {
	TextPart       *TextPart
	ToolCallPart   *ToolCallPart
	ToolResultPart *ToolResultPart
}

// TextPart is plain text.
type TextPart struct {
	Text string
}

// ToolCallPart is a request from the model to run a tool. Args is the JSON
// object the model produced for the tool's parameters.
type ToolCallPart struct {
	ToolCallID string
	ToolName   string
	Args       json.RawMessage
}

// ToolResultPart answers the tool call with the same ID.
type ToolResultPart struct {
	ToolCallID string
	ToolName   string
	Content    []Part
	IsError    bool
}

func (p Part) Type() PartType {
	switch {
	case p.TextPart != nil:
		return PartTypeText
	case p.ToolCallPart != nil:
		return PartTypeToolCall
	case p.ToolResultPart != nil:
		return PartTypeToolResult
	}
	return ""
}

// partJSON is the flat wire form shared by every part variant.
type partJSON struct {
	Type       PartType        `json:"type"`
	Text       string          `json:"text,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	ToolName   string          `json:"tool_name,omitempty"`
	Args       json.RawMessage `json:"args,omitempty"`
	Content    []Part          `json:"content,omitempty"`
	IsError    bool            `json:"is_error,omitempty"`
}

func (p Part) MarshalJSON() ([]byte, error) {
	w := partJSON{Type: p.Type()}
	switch w.Type {
	case PartTypeText:
		w.Text = p.TextPart.Text
	case PartTypeToolCall:
		w.ToolCallID = p.ToolCallPart.ToolCallID
		w.ToolName = p.ToolCallPart.ToolName
		w.Args = p.ToolCallPart.Args
	case PartTypeToolResult:
		w.ToolCallID = p.ToolResultPart.ToolCallID
		w.ToolName = p.ToolResultPart.ToolName
		w.Content = p.ToolResultPart.Content
		w.IsError = p.ToolResultPart.IsError
	default:
		return nil, errors.New("llm: empty part")
	}
	return json.Marshal(w)
}

func (p *Part) UnmarshalJSON(data []byte) error {
	var w partJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = Part{}
	switch w.Type {
	case PartTypeText:
		p.TextPart = &TextPart{Text: w.Text}
	case PartTypeToolCall:
		p.ToolCallPart = &ToolCallPart{ToolCallID: w.ToolCallID, ToolName: w.ToolName, Args: w.Args}
	case PartTypeToolResult:
		p.ToolResultPart = &ToolResultPart{
			ToolCallID: w.ToolCallID,
			ToolName:   w.ToolName,
			Content:    w.Content,
			IsError:    w.IsError,
		}
	default:
		return fmt.Errorf("llm: unknown part type %q", w.Type)
	}
	return nil
}

func NewTextPart(text string) Part {
	return Part{TextPart: &TextPart{Text: text}}
}

func NewToolCallPart(toolCallID, toolName string, args json.RawMessage) Part {
	return Part{ToolCallPart: &ToolCallPart{ToolCallID: toolCallID, ToolName: toolName, Args: args}}
}

func NewToolResultPart(toolCallID, toolName string, content []Part, isError bool) Part {
	return Part{ToolResultPart: &ToolResultPart{
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Content:    content,
		IsError:    isError,
	}}
}

// JoinText concatenates the text parts and ignores the rest.
func JoinText(parts []Part) string {
	var sb strings.Builder
	for _, part := range parts {
		if part.TextPart != nil {
			sb.WriteString(part.TextPart.Text)
		}
	}
	return sb.String()
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of the conversation. Exactly one field is set.
type Message struct {
	UserMessage      *UserMessage
	AssistantMessage *AssistantMessage
	// ToolMessage only carries ToolResultPart content.
	ToolMessage *ToolMessage
}

type UserMessage struct {
	Content []Part
}

type AssistantMessage struct {
	Content []Part
}

type ToolMessage struct {
	Content []Part
}

func (m Message) Role() Role {
	switch {
	case m.UserMessage != nil:
		return RoleUser
	case m.AssistantMessage != nil:
		return RoleAssistant
	case m.ToolMessage != nil:
		return RoleTool
	}
	return ""
}

// Content returns the parts of whichever variant is set.
func (m Message) Content() []Part {
	switch {
	case m.UserMessage != nil:
		return m.UserMessage.Content
	case m.AssistantMessage != nil:
		return m.AssistantMessage.Content
	case m.ToolMessage != nil:
		return m.ToolMessage.Content
	}
	return nil
}

type messageJSON struct {
	Role    Role   `json:"role"`
	Content []Part `json:"content"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	role := m.Role()
	if role == "" {
		return nil, errors.New("llm: empty message")
	}
	return json.Marshal(messageJSON{Role: role, Content: m.Content()})
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var w messageJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*m = Message{}
	switch w.Role {
	case RoleUser:
		m.UserMessage = &UserMessage{Content: w.Content}
	case RoleAssistant:
		m.AssistantMessage = &AssistantMessage{Content: w.Content}
	case RoleTool:
		m.ToolMessage = &ToolMessage{Content: w.Content}
	default:
		return fmt.Errorf("llm: unknown message role %q", w.Role)
	}
	return nil
}

func NewUserMessage(parts ...Part) Message {
	return Message{UserMessage: &UserMessage{Content: parts}}
}

func NewAssistantMessage(parts ...Part) Message {
	return Message{AssistantMessage: &AssistantMessage{Content: parts}}
}

func NewToolMessage(parts ...Part) Message {
	return Message{ToolMessage: &ToolMessage{Content: parts}}
}

// JSONSchema is a JSON schema document kept as a plain map.
type JSONSchema map[string]any

// Tool declares a function the model may call. Parameters must describe an
// object.
type Tool struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

type ModelUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add accumulates other into u. A nil other is ignored.
func (u *ModelUsage) Add(other *ModelUsage) {
	if other == nil {
		return
	}
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

type ModelResponse struct {
	Content []Part      `json:"content"`
	Usage   *ModelUsage `json:"usage,omitempty"`
}

// Sampling holds the optional generation controls of a request. Nil fields
// leave the provider default in place.
type Sampling struct {
	MaxTokens        *int64   `json:"max_tokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
}

// LanguageModelInput is everything a model needs to produce the next turn.
type LanguageModelInput struct {
	SystemPrompt *string   `json:"system_prompt,omitempty"`
	Messages     []Message `json:"messages"`
	Tools        []Tool    `json:"tools,omitempty"`
	Sampling
}
