package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/attrgraph/internal/eventbus"
	events "github.com/hanpama/attrgraph/internal/events"
	graph "github.com/hanpama/attrgraph/internal/graph"
	runid "github.com/hanpama/attrgraph/internal/runid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures OpenTelemetry and attaches run/resolver span subscribers
// to the event bus. If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("attrgraph")}
	sub.register()

	return tp.Shutdown, nil
}

// resolverKey identifies an in-flight resolver invocation. Node ids are
// unique within a graph and invocations within one run are sequential, so the
// pair is collision-free.
type resolverKey struct {
	rid  int64
	node graph.NodeID
}

type subscriber struct {
	tracer        trace.Tracer
	runSpans      sync.Map // int64 -> trace.Span
	resolverSpans sync.Map // resolverKey -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.RunStart) {
		if e.Nested {
			// Nested runs share the parent's run span.
			return
		}
		rid, _ := runid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "attrgraph.run")
		span.SetAttributes(attribute.String("attrgraph.query", e.Query))
		s.runSpans.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.RunFinish) {
		if e.Nested {
			return
		}
		rid, _ := runid.FromContext(ctx)
		v, ok := s.runSpans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ResolverStart) {
		rid, _ := runid.FromContext(ctx)
		parent := ctx
		if v, ok := s.runSpans.Load(rid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "attrgraph.resolver")
		span.SetAttributes(
			attribute.String("attrgraph.resolver", e.Resolver),
			attribute.Int64("attrgraph.node", int64(e.Node)),
		)
		s.resolverSpans.Store(resolverKey{rid: rid, node: e.Node}, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ResolverFinish) {
		rid, _ := runid.FromContext(ctx)
		v, ok := s.resolverSpans.LoadAndDelete(resolverKey{rid: rid, node: e.Node})
		if !ok {
			return
		}
		span := v.(trace.Span)
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})
}
