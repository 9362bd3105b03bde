package agents

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/TolaniSilas/agents/internal/ptr"
	"github.com/TolaniSilas/agents/llm"
	"golang.org/x/sync/errgroup"
)

// RunSession is an agent bound to one context value. Instructions are
// resolved and toolkit sessions opened once, in NewRunSession, and reused by
// every Run until Close.
type RunSession[C any] struct {
	params     *AgentParams[C]
	contextVal C

	systemPrompt string
	tools        []AgentTool[C]
	toolkits     []ToolkitSession[C]
	open         bool
}

// RunSessionRequest seeds a run with items such as the user message.
type RunSessionRequest struct {
	Input []AgentItem
}

func NewRunSession[C any](ctx context.Context, params *AgentParams[C], contextVal C) (*RunSession[C], error) {
	if params.Model == nil {
		return nil, NewInitError(errors.New("no language model configured"))
	}

	s := &RunSession[C]{
		params:     params,
		contextVal: contextVal,
		tools:      slices.Clone(params.Tools),
	}

	if len(params.Instructions) > 0 {
		prompt, err := getPrompt(ctx, params.Instructions, contextVal)
		if err != nil {
			return nil, NewInitError(err)
		}
		s.systemPrompt = prompt
	}

	toolkits, err := openToolkits(ctx, params.Toolkits, contextVal)
	if err != nil {
		return nil, NewInitError(err)
	}
	s.toolkits = toolkits
	s.open = true

	return s, nil
}

// openToolkits creates every toolkit session concurrently. If one fails the
// sessions already created are closed.
func openToolkits[C any](ctx context.Context, toolkits []Toolkit[C], contextVal C) ([]ToolkitSession[C], error) {
	if len(toolkits) == 0 {
		return nil, nil
	}

	sessions := make([]ToolkitSession[C], len(toolkits))
	g, gctx := errgroup.WithContext(ctx)
	for i, toolkit := range toolkits {
		g.Go(func() error {
			session, err := toolkit.CreateSession(gctx, contextVal)
			if err != nil {
				return fmt.Errorf("toolkits[%d]: %w", i, err)
			}
			sessions[i] = session
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, session := range sessions {
			if session != nil {
				_ = session.Close(ctx)
			}
		}
		return nil, err
	}
	return sessions, nil
}

// Run drives the model until it answers without calling a tool.
//
// Each iteration executes the tool calls of the latest assistant turn that
// have no result yet. When there are none the run either finishes, because
// the model answered in plain content, or asks the model for the next turn.
func (s *RunSession[C]) Run(ctx context.Context, request RunSessionRequest) (*AgentResponse, error) {
	if !s.open {
		return nil, NewInvariantError("run session is closed")
	}

	return traceRun(ctx, s.params.Name, func(ctx context.Context) (*AgentResponse, error) {
		maxTurns := s.params.MaxTurns
		if maxTurns == 0 {
			maxTurns = DefaultMaxTurns
		}
		state := NewRunState(request.Input, maxTurns, s.params.MaxRetries)

		for {
			tools := s.availableTools()

			turn, err := lastAssistantTurn(state.Items())
			if err != nil {
				return nil, err
			}
			if turn != nil {
				if len(turn.calls) == 0 {
					return state.response(turn.content), nil
				}
				items, err := s.executeCalls(ctx, state, tools, turn)
				if err != nil {
					return nil, err
				}
				state.append(items...)
			}

			if err := state.nextTurn(); err != nil {
				return nil, err
			}
			response, err := s.params.Model.Generate(ctx, s.modelInput(state, tools))
			if err != nil {
				return nil, NewLanguageModelError(err)
			}
			if len(response.Content) == 0 {
				return nil, NewInvariantError("model returned no content")
			}
			state.append(NewAgentItemModelResponse(*response))
		}
	})
}

type assistantTurn struct {
	content []llm.Part
	// calls are the tool calls of content still waiting for a result.
	calls []*llm.ToolCallPart
}

// lastAssistantTurn walks back from the end of items to the latest assistant
// content, skipping over the tool results that answer it. A nil turn means
// the history ends with a user message and the model has to speak next.
func lastAssistantTurn(items []AgentItem) (*assistantTurn, error) {
	if len(items) == 0 {
		return nil, NewInvariantError("run has no input items")
	}

	answered := map[string]bool{}
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		var content []llm.Part
		switch {
		case item.Tool != nil:
			answered[item.Tool.ToolCallID] = true
			continue
		case item.Model != nil:
			content = item.Model.Content
		case item.Message == nil:
			return nil, NewInvariantError("empty item in run history")
		case item.Message.ToolMessage != nil:
			for _, part := range item.Message.ToolMessage.Content {
				if part.ToolResultPart != nil {
					answered[part.ToolResultPart.ToolCallID] = true
				}
			}
			continue
		case item.Message.AssistantMessage != nil:
			content = item.Message.AssistantMessage.Content
		case item.Message.UserMessage != nil:
			if i != len(items)-1 {
				return nil, NewInvariantError("tool results follow a user message")
			}
			return nil, nil
		default:
			return nil, NewInvariantError("message without a role in run history")
		}

		if len(content) == 0 {
			return nil, NewInvariantError("assistant turn has no content")
		}
		turn := &assistantTurn{content: content}
		hasCalls := false
		for _, part := range content {
			call := part.ToolCallPart
			if call == nil {
				continue
			}
			hasCalls = true
			if !answered[call.ToolCallID] {
				turn.calls = append(turn.calls, call)
			}
		}
		// Every call answered: the model has to look at the results.
		if hasCalls && len(turn.calls) == 0 {
			return nil, nil
		}
		return turn, nil
	}
	return nil, NewInvariantError("tool results without a preceding assistant turn")
}

// executeCalls runs the pending calls one by one, in the order the model
// made them.
func (s *RunSession[C]) executeCalls(
	ctx context.Context,
	state *RunState,
	tools []AgentTool[C],
	turn *assistantTurn,
) ([]AgentItem, error) {
	items := make([]AgentItem, 0, len(turn.calls))
	for _, call := range turn.calls {
		i := slices.IndexFunc(tools, func(t AgentTool[C]) bool { return t.Name() == call.ToolName })
		if i < 0 {
			return nil, NewInvariantError(fmt.Sprintf("model called unknown tool %q", call.ToolName))
		}
		tool := tools[i]

		result, err := traceTool(ctx, tool, call.ToolCallID, func(ctx context.Context) (AgentToolResult, error) {
			return tool.Execute(ctx, call.Args, s.contextVal, state)
		})

		var retryErr *ToolRetryError
		switch {
		case errors.As(err, &retryErr):
			if err := state.recordRetry(call.ToolName, retryErr); err != nil {
				return nil, err
			}
			result = AgentToolResult{Content: []llm.Part{llm.NewTextPart(retryErr.prompt())}, IsError: true}
		case err != nil:
			return nil, NewToolExecutionError(call.ToolName, err)
		default:
			state.resetRetries(call.ToolName)
		}

		items = append(items, NewAgentItemTool(call.ToolCallID, call.ToolName, call.Args, result.Content, result.IsError))
	}
	return items, nil
}

func (s *RunSession[C]) modelInput(state *RunState, tools []AgentTool[C]) *llm.LanguageModelInput {
	input := &llm.LanguageModelInput{
		Messages: state.messages(),
		Sampling: s.params.Sampling,
	}

	var prompts []string
	if s.systemPrompt != "" {
		prompts = append(prompts, s.systemPrompt)
	}
	for _, toolkit := range s.toolkits {
		if p := toolkit.SystemPrompt(); p != nil && *p != "" {
			prompts = append(prompts, *p)
		}
	}
	if len(prompts) > 0 {
		input.SystemPrompt = ptr.To(strings.Join(prompts, "\n"))
	}

	for _, tool := range tools {
		input.Tools = append(input.Tools, llm.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return input
}

// availableTools is the static tools followed by what each toolkit session
// currently offers.
func (s *RunSession[C]) availableTools() []AgentTool[C] {
	tools := slices.Clone(s.tools)
	for _, toolkit := range s.toolkits {
		tools = append(tools, toolkit.Tools()...)
	}
	return tools
}

// Close releases the toolkit sessions. Calling it again is a no-op.
func (s *RunSession[C]) Close(ctx context.Context) error {
	if !s.open {
		return nil
	}

	var g errgroup.Group
	for _, toolkit := range s.toolkits {
		g.Go(func() error { return toolkit.Close(ctx) })
	}
	err := g.Wait()

	s.open = false
	s.toolkits = nil
	return err
}
