package weather

import (
	"context"
	"errors"

	"github.com/TolaniSilas/agents"
	"github.com/TolaniSilas/agents/llm"
)

const (
	AgentName = "weather_agent"
	// MaxRetries is how many times in a row a lookup may ask the model to
	// reformulate before the run fails.
	MaxRetries = 2
)

// NewAgent creates the weather agent on top of the given model. Extra options
// are applied after the defaults.
func NewAgent(model llm.LanguageModel, opts ...agents.AgentParamsOption[*Deps]) *agents.Agent[*Deps] {
	instructions := make([]agents.InstructionParam[*Deps], 0, len(Instructions))
	for _, instruction := range Instructions {
		instructions = append(instructions, agents.NewStringInstruction[*Deps](instruction))
	}

	options := []agents.AgentParamsOption[*Deps]{
		agents.WithInstructions(instructions...),
		agents.WithToolkits[*Deps](Toolkit{}),
		agents.WithMaxRetries[*Deps](MaxRetries),
	}
	options = append(options, opts...)

	return agents.NewAgent(AgentName, model, options...)
}

// Run answers a single query.
func Run(ctx context.Context, agent *agents.Agent[*Deps], deps *Deps, query string) (*agents.AgentResponse, error) {
	if deps == nil {
		return nil, errors.New("weather: nil deps")
	}
	return agent.Run(ctx, agents.AgentRequest[*Deps]{
		Context: deps,
		Input:   []agents.AgentItem{agents.NewUserTextItem(query)},
	})
}
