package agents

import (
	"encoding/json"

	"github.com/TolaniSilas/agents/llm"
)

// AgentItem is one entry of a run's history. Exactly one field is set.
type AgentItem struct {
	// A message supplied as input, e.g. the user's query.
	Message *llm.Message `json:"message,omitempty"`
	// A response generated by the model during the run.
	Model *AgentItemModelResponse `json:"model,omitempty"`
	// The outcome of one tool call.
	Tool *AgentItemTool `json:"tool,omitempty"`
}

type AgentItemModelResponse struct {
	*llm.ModelResponse
}

type AgentItemTool struct {
	ToolCallID string          `json:"tool_call_id"`
	ToolName   string          `json:"tool_name"`
	Input      json.RawMessage `json:"input"`
	Output     []llm.Part      `json:"output"`
	IsError    bool            `json:"is_error"`
}

// AgentRequest is the input of a one-shot run.
type AgentRequest[C any] struct {
	// Context is bound to the run and passed to instructions, toolkits and tools.
	Context C
	// Input holds the items to seed the run, such as the user message.
	Input []AgentItem
}

// AgentResponse is the result of a run.
type AgentResponse struct {
	// The final content of the model.
	Content []llm.Part `json:"content"`
	// The items generated during the run, such as model responses and tool results.
	Output []AgentItem `json:"output"`
}

// Text returns the concatenated text parts of the final content.
func (r *AgentResponse) Text() string {
	return llm.JoinText(r.Content)
}

// Usage sums the token usage of every model response in the output.
func (r *AgentResponse) Usage() *llm.ModelUsage {
	var usage *llm.ModelUsage
	for _, item := range r.Output {
		if item.Model == nil || item.Model.Usage == nil {
			continue
		}
		if usage == nil {
			usage = &llm.ModelUsage{}
		}
		usage.Add(item.Model.Usage)
	}
	return usage
}

func NewAgentItemMessage(message llm.Message) AgentItem {
	return AgentItem{Message: &message}
}

func NewAgentItemModelResponse(response llm.ModelResponse) AgentItem {
	return AgentItem{Model: &AgentItemModelResponse{ModelResponse: &response}}
}

func NewAgentItemTool(toolCallID, toolName string, input json.RawMessage, output []llm.Part, isError bool) AgentItem {
	return AgentItem{Tool: &AgentItemTool{
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Input:      input,
		Output:     output,
		IsError:    isError,
	}}
}

// NewUserTextItem is a shortcut for a user message holding a single text part.
func NewUserTextItem(text string) AgentItem {
	return NewAgentItemMessage(llm.NewUserMessage(llm.NewTextPart(text)))
}
