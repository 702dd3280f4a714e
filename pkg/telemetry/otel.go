package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for all bamboo spans.
const TracerName = "bamboo"

// Tracer returns the bamboo tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Start opens a span named "bamboo.<name>".
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "bamboo."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records err on span, sets its status and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Attribute keys shared by the packages that open spans.
var (
	KeySource = attribute.Key("bamboo.source")
	KeyEvent  = attribute.Key("bamboo.event")
	KeyPath   = attribute.Key("bamboo.path")
	KeyHost   = attribute.Key("bamboo.host")
	KeyStats  = attribute.Key("bamboo.bindings")
)
