package agents

import (
	"slices"
	"sync"

	"github.com/TolaniSilas/agents/llm"
)

// RunState is the history of one run plus its turn and retry counters.
// Tools receive it read-only through Execute.
type RunState struct {
	mu sync.RWMutex

	maxTurns   uint
	maxRetries uint
	turns      uint
	// history starts with the caller's input; items from generated on were
	// produced by the run.
	history   []AgentItem
	generated int
	// retries counts consecutive ToolRetryErrors by tool name.
	retries map[string]uint
}

func NewRunState(input []AgentItem, maxTurns, maxRetries uint) *RunState {
	return &RunState{
		maxTurns:   maxTurns,
		maxRetries: maxRetries,
		history:    slices.Clone(input),
		generated:  len(input),
		retries:    make(map[string]uint),
	}
}

// Turn is the number of model calls started so far.
func (s *RunState) Turn() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.turns
}

// Retries returns how many times in a row the tool has asked for a retry.
func (s *RunState) Retries(toolName string) uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retries[toolName]
}

// Items returns a copy of the full history.
func (s *RunState) Items() []AgentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history)
}

func (s *RunState) nextTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turns == s.maxTurns {
		return NewMaxTurnsExceededError(s.maxTurns)
	}
	s.turns++
	return nil
}

func (s *RunState) recordRetry(toolName string, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.retries[toolName] + 1
	s.retries[toolName] = n
	if n > s.maxRetries {
		return NewToolRetriesExceededError(toolName, s.maxRetries, cause)
	}
	return nil
}

func (s *RunState) resetRetries(toolName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.retries, toolName)
}

func (s *RunState) append(items ...AgentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, items...)
}

// messages renders the history as model input. Consecutive tool items share a
// single tool message.
func (s *RunState) messages() []llm.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []llm.Message
	for _, item := range s.history {
		switch {
		case item.Message != nil:
			out = append(out, *item.Message)
		case item.Model != nil:
			out = append(out, llm.NewAssistantMessage(item.Model.Content...))
		case item.Tool != nil:
			part := llm.NewToolResultPart(item.Tool.ToolCallID, item.Tool.ToolName, item.Tool.Output, item.Tool.IsError)
			if n := len(out); n > 0 && out[n-1].ToolMessage != nil {
				tm := *out[n-1].ToolMessage
				tm.Content = append(slices.Clip(tm.Content), part)
				out[n-1] = llm.Message{ToolMessage: &tm}
				continue
			}
			out = append(out, llm.NewToolMessage(part))
		}
	}
	return out
}

func (s *RunState) response(content []llm.Part) *AgentResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &AgentResponse{
		Content: content,
		Output:  slices.Clone(s.history[s.generated:]),
	}
}
