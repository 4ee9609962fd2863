package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTracerName is the instrumentation name used by NewTracer("").
const DefaultTracerName = "github.com/vango-dev/vtree"

// Tracer starts spans around compilation and instantiation. A nil *Tracer
// starts no spans.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer using the global OpenTelemetry provider.
// Configure the provider in main() before creating the environment.
func NewTracer(name string) *Tracer {
	if name == "" {
		name = DefaultTracerName
	}
	return &Tracer{tracer: otel.Tracer(name)}
}

// NewTracerFrom wraps an existing trace.Tracer.
func NewTracerFrom(t trace.Tracer) *Tracer {
	return &Tracer{tracer: t}
}

// Start starts a span and returns a function ending it. The end function
// records err on the span and sets an error status when err is non-nil.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	if t == nil || t.tracer == nil {
		return ctx, func(error) {}
	}
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			code := status(err)
			span.SetAttributes(attribute.String("vtree.error_code", code))
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
