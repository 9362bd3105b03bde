package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TolaniSilas/agents/llm"
)

// AgentTool is a function the model can call.
type AgentTool[C any] interface {
	Name() string
	// Description tells the model when to call the tool.
	Description() string
	// Parameters is the JSON schema of the arguments. Its type must be
	// "object".
	Parameters() llm.JSONSchema
	// Execute runs the tool with the arguments the model produced.
	//
	// A *ToolRetryError is sent back to the model as an error result so it
	// can try again, up to the agent's MaxRetries. Any other error aborts the
	// run. Failures the model should simply read belong in an AgentToolResult
	// with IsError set.
	Execute(ctx context.Context, params json.RawMessage, contextVal C, runState *RunState) (AgentToolResult, error)
}

type AgentToolResult struct {
	Content []llm.Part `json:"content"`
	IsError bool       `json:"is_error"`
}

// NewTextToolResult is a shortcut for a successful single-text result.
func NewTextToolResult(text string) AgentToolResult {
	return AgentToolResult{Content: []llm.Part{llm.NewTextPart(text)}}
}

// ToolRetryError signals a recoverable tool failure. The message is sent back
// to the model so it can call the tool again with different arguments.
type ToolRetryError struct {
	Message string
}

func (e *ToolRetryError) Error() string {
	return e.Message
}

// NewToolRetryError creates a retryable tool failure with a formatted message.
func NewToolRetryError(format string, args ...any) *ToolRetryError {
	return &ToolRetryError{Message: fmt.Sprintf(format, args...)}
}

// prompt is the text of the error tool result handed to the model.
func (e *ToolRetryError) prompt() string {
	return e.Message + "\n\nFix the errors and try again."
}
