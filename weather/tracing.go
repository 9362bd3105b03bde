package weather

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func tracer() trace.Tracer {
	return otel.Tracer("github.com/TolaniSilas/agents/weather")
}

// traceLookup wraps one lookup in a span. Placeholder answers are marked so
// they can be told apart from real ones.
func traceLookup[T any](
	ctx context.Context,
	name string,
	placeholder bool,
	fn func(context.Context) (T, error),
	attrs ...attribute.KeyValue,
) (T, error) {
	ctx, span := tracer().Start(ctx, "weather."+name)
	defer span.End()

	span.SetAttributes(attrs...)
	span.SetAttributes(attribute.Bool("weather.placeholder", placeholder))

	res, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}
