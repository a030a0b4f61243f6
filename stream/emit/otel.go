package emit

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter turns each event into an OpenTelemetry span, named after
// the transition kind ("next", "error", "terminate", ...) and ended
// immediately: events are points in time, not durations.
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter constructs an OTelEmitter using tracer, e.g.
// otel.Tracer("streamkit").
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit creates and immediately ends a span for event.
func (o *OTelEmitter) Emit(event Event) {
	ctx := context.Background()
	_, span := o.tracer.Start(ctx, event.Kind.String())
	defer span.End()
	o.annotate(span, event)
}

// EmitBatch creates one span per event, in order.
func (o *OTelEmitter) EmitBatch(ctx context.Context, events []Event) error {
	for _, event := range events {
		_, span := o.tracer.Start(ctx, event.Kind.String())
		o.annotate(span, event)
		span.End()
	}
	return nil
}

// Flush force-flushes the active tracer provider, if it supports
// flushing (e.g. the SDK's batch span processor).
func (o *OTelEmitter) Flush(ctx context.Context) error {
	tp := otel.GetTracerProvider()
	type flusher interface {
		ForceFlush(context.Context) error
	}
	if f, ok := tp.(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}

func (o *OTelEmitter) annotate(span trace.Span, event Event) {
	span.SetAttributes(
		attribute.String("streamkit.stream_id", event.StreamID),
		attribute.Int64("streamkit.node_id", int64(event.NodeID)),
		attribute.String("streamkit.node_name", event.NodeName),
		attribute.String("streamkit.flavor", event.Flavor),
		attribute.Int64("streamkit.seq", int64(event.Seq)),
	)
	if event.Reason != "" {
		span.SetAttributes(attribute.String("streamkit.reason", event.Reason))
	}
	if event.Err != nil {
		span.SetStatus(codes.Error, event.Err.Error())
		span.RecordError(fmt.Errorf("%w", event.Err))
	}
	o.addMetadataAttributes(span, event.Meta)
}

// addMetadataAttributes converts event metadata to span attributes,
// converting time.Duration to milliseconds and falling back to a string
// representation for any other type.
func (o *OTelEmitter) addMetadataAttributes(span trace.Span, meta map[string]interface{}) {
	for key, value := range meta {
		switch v := value.(type) {
		case string:
			span.SetAttributes(attribute.String(key, v))
		case int:
			span.SetAttributes(attribute.Int(key, v))
		case int64:
			span.SetAttributes(attribute.Int64(key, v))
		case float64:
			span.SetAttributes(attribute.Float64(key, v))
		case bool:
			span.SetAttributes(attribute.Bool(key, v))
		case time.Duration:
			span.SetAttributes(attribute.Int64(key, int64(v/time.Millisecond)))
		default:
			span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}
}
