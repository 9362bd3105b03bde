// Package llmtest provides a scripted llm.LanguageModel for tests.
package llmtest

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/TolaniSilas/agents/llm"
)

// ErrExhausted is returned by Generate once every scripted result was used.
var ErrExhausted = errors.New("llmtest: no scripted result left")

// Result is one scripted outcome of Generate.
type Result struct {
	Response *llm.ModelResponse
	Err      error
}

func Respond(response llm.ModelResponse) Result {
	return Result{Response: &response}
}

func Fail(err error) Result {
	return Result{Err: err}
}

// Model replays scripted results in order and records every input it was
// called with.
type Model struct {
	mu      sync.Mutex
	pending []Result
	inputs  []llm.LanguageModelInput
}

func NewModel(results ...Result) *Model {
	return &Model{pending: results}
}

func (m *Model) Provider() string { return "mock" }
func (m *Model) ModelID() string  { return "mock-model" }

func (m *Model) Generate(_ context.Context, input *llm.LanguageModelInput) (*llm.ModelResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.pending) == 0 {
		return nil, ErrExhausted
	}
	next := m.pending[0]
	m.pending = m.pending[1:]
	m.inputs = append(m.inputs, *input)

	return next.Response, next.Err
}

// Enqueue appends results to the script.
func (m *Model) Enqueue(results ...Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, results...)
}

// Inputs returns the inputs of every Generate call that consumed a result.
func (m *Model) Inputs() []llm.LanguageModelInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.inputs)
}

// Reset drops the remaining script and the recorded inputs.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
	m.inputs = nil
}
