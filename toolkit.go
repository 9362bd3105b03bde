package agents

import "context"

// Toolkit opens a ToolkitSession for every run session, letting tools and
// prompt text depend on the context value.
type Toolkit[C any] interface {
	CreateSession(ctx context.Context, contextVal C) (ToolkitSession[C], error)
}

// ToolkitSession is consulted before each model call, so both the prompt and
// the tool list may change during a run.
type ToolkitSession[C any] interface {
	// SystemPrompt is appended to the agent instructions. Nil adds nothing.
	SystemPrompt() *string
	Tools() []AgentTool[C]
	Close(ctx context.Context) error
}
