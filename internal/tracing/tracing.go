// Package tracing instruments language model calls with OpenTelemetry.
package tracing

import (
	"context"
	"time"

	"github.com/TolaniSilas/agents/llm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceGenerate runs fn inside an "llm.generate" span. The span records the
// request shape up front and the token usage or error once fn returns.
func TraceGenerate(
	ctx context.Context,
	provider string,
	modelID string,
	input *llm.LanguageModelInput,
	fn func(context.Context) (*llm.ModelResponse, error),
) (*llm.ModelResponse, error) {
	attrs := []attribute.KeyValue{
		attribute.String("gen_ai.operation.name", "generate_content"),
		attribute.String("gen_ai.provider.name", provider),
		attribute.String("gen_ai.request.model", modelID),
	}
	if input != nil {
		attrs = append(attrs, attribute.Int("gen_ai.request.tool_count", len(input.Tools)))
		attrs = append(attrs, requestAttributes(input.Sampling)...)
	}

	tracer := otel.Tracer("github.com/TolaniSilas/agents/llm")
	ctx, span := tracer.Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	response, err := fn(ctx)
	span.SetAttributes(attribute.Float64("llm.duration_seconds", time.Since(start).Seconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if response != nil && response.Usage != nil {
		span.SetAttributes(
			attribute.Int("gen_ai.usage.input_tokens", response.Usage.InputTokens),
			attribute.Int("gen_ai.usage.output_tokens", response.Usage.OutputTokens),
		)
	}
	return response, nil
}

// requestAttributes skips controls left to the provider default.
func requestAttributes(sampling llm.Sampling) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if sampling.MaxTokens != nil {
		attrs = append(attrs, attribute.Int64("gen_ai.request.max_tokens", *sampling.MaxTokens))
	}
	for key, value := range map[string]*float64{
		"gen_ai.request.temperature":       sampling.Temperature,
		"gen_ai.request.top_p":             sampling.TopP,
		"gen_ai.request.presence_penalty":  sampling.PresencePenalty,
		"gen_ai.request.frequency_penalty": sampling.FrequencyPenalty,
	} {
		if value != nil {
			attrs = append(attrs, attribute.Float64(key, *value))
		}
	}
	return attrs
}
