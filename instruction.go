package agents

import (
	"context"
	"fmt"
	"strings"
)

// InstructionParam is either a static string or a function resolved against
// the run's context value when the session starts.
type InstructionParam[C any] struct {
	String *string
	Func   func(ctx context.Context, contextVal C) (string, error)
}

// NewStringInstruction wraps a static instruction.
func NewStringInstruction[C any](s string) InstructionParam[C] {
	return InstructionParam[C]{String: &s}
}

// NewFuncInstruction wraps a dynamic instruction.
func NewFuncInstruction[C any](fn func(ctx context.Context, contextVal C) (string, error)) InstructionParam[C] {
	return InstructionParam[C]{Func: fn}
}

// getPrompt builds the system prompt from instructions
func getPrompt[C any](ctx context.Context, instructions []InstructionParam[C], contextVal C) (string, error) {
	prompts := make([]string, 0, len(instructions))
	for i, param := range instructions {
		switch {
		case param.String != nil:
			prompts = append(prompts, *param.String)
		case param.Func != nil:
			prompt, err := param.Func(ctx, contextVal)
			if err != nil {
				return "", fmt.Errorf("instructions[%d]: %w", i, err)
			}
			prompts = append(prompts, prompt)
		}
	}

	return strings.Join(prompts, "\n"), nil
}
