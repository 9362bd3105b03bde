package agents

import (
	"context"

	"github.com/TolaniSilas/agents/llm"
)

const (
	DefaultMaxTurns   = 10
	DefaultMaxRetries = 1
)

type Agent[C any] struct {
	Name   string
	params *AgentParams[C]
}

// NewAgent builds an agent around model. Without options it has no
// instructions or tools, runs at most 10 turns and allows one retry per tool.
func NewAgent[C any](name string, model llm.LanguageModel, options ...AgentParamsOption[C]) *Agent[C] {
	params := &AgentParams[C]{
		Name:       name,
		Model:      model,
		MaxTurns:   DefaultMaxTurns,
		MaxRetries: DefaultMaxRetries,
	}

	for _, option := range options {
		option(params)
	}

	return &Agent[C]{Name: name, params: params}
}

// Run answers a single request in a session of its own.
func (a *Agent[C]) Run(ctx context.Context, request AgentRequest[C]) (*AgentResponse, error) {
	session, err := a.CreateSession(ctx, request.Context)
	if err != nil {
		return nil, err
	}

	response, err := session.Run(ctx, RunSessionRequest{Input: request.Input})
	if closeErr := session.Close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
		return nil, closeErr
	}
	if err != nil {
		return nil, err
	}
	return response, nil
}

// CreateSession creates a run session bound to contextVal. The caller must
// Close it.
func (a *Agent[C]) CreateSession(ctx context.Context, contextVal C) (*RunSession[C], error) {
	return NewRunSession(ctx, a.params, contextVal)
}
