package agents

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	LanguageModelErrorKind       ErrorKind = "language_model_error"
	InvariantErrorKind           ErrorKind = "invariant_error"
	ToolExecutionErrorKind       ErrorKind = "tool_execution_error"
	MaxTurnsExceededErrorKind    ErrorKind = "max_turns_exceeded"
	InitErrorKind                ErrorKind = "init_error"
	ToolRetriesExceededErrorKind ErrorKind = "tool_retries_exceeded"
)

// AgentError is returned by every failed run. Kind tells callers what went
// wrong without matching on messages.
type AgentError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AgentError) Error() string {
	if e.Err == nil {
		return "agents: " + e.Message
	}
	return fmt.Sprintf("agents: %s: %v", e.Message, e.Err)
}

func (e *AgentError) Unwrap() error { return e.Err }

// IsKind reports whether err wraps an *AgentError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var agentErr *AgentError
	if !errors.As(err, &agentErr) {
		return false
	}
	return agentErr.Kind == kind
}

func NewLanguageModelError(err error) *AgentError {
	return &AgentError{Kind: LanguageModelErrorKind, Message: "model call failed", Err: err}
}

func NewInvariantError(msg string) *AgentError {
	return &AgentError{Kind: InvariantErrorKind, Message: msg}
}

func NewToolExecutionError(toolName string, err error) *AgentError {
	return &AgentError{Kind: ToolExecutionErrorKind, Message: "tool " + toolName, Err: err}
}

func NewMaxTurnsExceededError(maxTurns uint) *AgentError {
	return &AgentError{
		Kind:    MaxTurnsExceededErrorKind,
		Message: fmt.Sprintf("no final answer within %d turns", maxTurns),
	}
}

func NewInitError(err error) *AgentError {
	return &AgentError{Kind: InitErrorKind, Message: "session setup", Err: err}
}

func NewToolRetriesExceededError(toolName string, maxRetries uint, err error) *AgentError {
	return &AgentError{
		Kind:    ToolRetriesExceededErrorKind,
		Message: fmt.Sprintf("tool %s still failing after %d retries", toolName, maxRetries),
		Err:     err,
	}
}
