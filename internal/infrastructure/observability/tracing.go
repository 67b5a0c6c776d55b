package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "verse-server/chat-api"

// GetTracer returns the tracer for the chat service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartExchangeSpan starts a span covering one conversation exchange.
func StartExchangeSpan(ctx context.Context, threadID, model string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "chat.exchange",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("chat.thread_id", threadID),
			attribute.String("chat.model", model),
		),
	)
}

// StartGenerateSpan starts a span covering the provider call, retries
// included.
func StartGenerateSpan(ctx context.Context, model string, contextSize int) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "provider.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("provider.model", model),
			attribute.Int("provider.context_messages", contextSize),
		),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
