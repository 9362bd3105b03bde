package agents

import "github.com/TolaniSilas/agents/llm"

// AgentParams configures an Agent. A zero MaxTurns means DefaultMaxTurns; a
// zero MaxRetries means the first ToolRetryError aborts the run.
type AgentParams[C any] struct {
	Name         string
	Model        llm.LanguageModel
	Instructions []InstructionParam[C]
	Tools        []AgentTool[C]
	// Toolkits contribute tools and prompt text per run session.
	Toolkits []Toolkit[C]
	// MaxTurns bounds the number of model calls in one run.
	MaxTurns uint
	// MaxRetries is how many consecutive ToolRetryErrors a single tool may
	// return. One more aborts the run.
	MaxRetries uint

	llm.Sampling
}

type AgentParamsOption[C any] func(*AgentParams[C])

func WithInstructions[C any](instructions ...InstructionParam[C]) AgentParamsOption[C] {
	return func(p *AgentParams[C]) { p.Instructions = instructions }
}

func WithTools[C any](tools ...AgentTool[C]) AgentParamsOption[C] {
	return func(p *AgentParams[C]) { p.Tools = tools }
}

func WithToolkits[C any](toolkits ...Toolkit[C]) AgentParamsOption[C] {
	return func(p *AgentParams[C]) { p.Toolkits = toolkits }
}

func WithMaxTurns[C any](maxTurns uint) AgentParamsOption[C] {
	return func(p *AgentParams[C]) { p.MaxTurns = maxTurns }
}

func WithMaxRetries[C any](maxRetries uint) AgentParamsOption[C] {
	return func(p *AgentParams[C]) { p.MaxRetries = maxRetries }
}

// WithSampling replaces all generation controls at once.
func WithSampling[C any](sampling llm.Sampling) AgentParamsOption[C] {
	return func(p *AgentParams[C]) { p.Sampling = sampling }
}

func WithMaxTokens[C any](maxTokens int64) AgentParamsOption[C] {
	return func(p *AgentParams[C]) { p.MaxTokens = &maxTokens }
}

// WithTemperature sets the sampling temperature, usually between 0 and 1.
func WithTemperature[C any](temperature float64) AgentParamsOption[C] {
	return func(p *AgentParams[C]) { p.Temperature = &temperature }
}

func WithTopP[C any](topP float64) AgentParamsOption[C] {
	return func(p *AgentParams[C]) { p.TopP = &topP }
}

func WithPresencePenalty[C any](penalty float64) AgentParamsOption[C] {
	return func(p *AgentParams[C]) { p.PresencePenalty = &penalty }
}

func WithFrequencyPenalty[C any](penalty float64) AgentParamsOption[C] {
	return func(p *AgentParams[C]) { p.FrequencyPenalty = &penalty }
}
