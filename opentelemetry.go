package agents

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Resolved on every call so a provider installed after import is picked up.
func tracer() trace.Tracer {
	return otel.Tracer("github.com/TolaniSilas/agents")
}

func failSpan(span trace.Span, err error) {
	var agentErr *AgentError
	if errors.As(err, &agentErr) {
		span.SetAttributes(attribute.String("agents.error.kind", string(agentErr.Kind)))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// traceRun runs fn inside an "agents.run" span tagged with the agent name
// and, on success, the summed token usage.
func traceRun(
	ctx context.Context,
	agentName string,
	fn func(context.Context) (*AgentResponse, error),
) (*AgentResponse, error) {
	ctx, span := tracer().Start(ctx, "agents.run", trace.WithAttributes(
		attribute.String("gen_ai.operation.name", "invoke_agent"),
		attribute.String("gen_ai.agent.name", agentName),
	))
	defer span.End()

	response, err := fn(ctx)
	if err != nil {
		failSpan(span, err)
		return nil, err
	}
	if usage := response.Usage(); usage != nil {
		span.SetAttributes(
			attribute.Int("gen_ai.usage.input_tokens", usage.InputTokens),
			attribute.Int("gen_ai.usage.output_tokens", usage.OutputTokens),
		)
	}
	return response, nil
}

func traceTool[C any](
	ctx context.Context,
	tool AgentTool[C],
	toolCallID string,
	fn func(context.Context) (AgentToolResult, error),
) (AgentToolResult, error) {
	ctx, span := tracer().Start(ctx, "agents.tool", trace.WithAttributes(
		attribute.String("gen_ai.operation.name", "execute_tool"),
		attribute.String("gen_ai.tool.name", tool.Name()),
		attribute.String("gen_ai.tool.call.id", toolCallID),
		attribute.String("gen_ai.tool.type", "function"),
	))
	defer span.End()

	result, err := fn(ctx)
	if err != nil {
		var retryErr *ToolRetryError
		span.SetAttributes(attribute.Bool("agents.tool.retry", errors.As(err, &retryErr)))
		failSpan(span, err)
	}
	return result, err
}
