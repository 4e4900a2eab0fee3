package urlstore

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for stores that were not given one.
const defaultTracerName = "github.com/vango-dev/urlstore"

func defaultTracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}

func (s *Store) startSpan(op string, attrs ...attribute.KeyValue) trace.Span {
	attrs = append(attrs, attribute.String("urlstore.op", op))
	_, span := s.tracer.Start(context.Background(), "urlstore."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return span
}

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
