// Package otel traces relq builder invocations with OpenTelemetry.
//
//	c, err := client.New(
//		client.Driver(drv),
//		client.Registry(reg),
//		client.WithObserver(relqotel.Observer(nil)),
//	)
package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/syssam/relq"
)

// ScopeName is the instrumentation scope of the default tracer.
const ScopeName = "github.com/syssam/relq"

// Observer returns a relq.Observer opening one span per builder invocation.
// Statements of the invocation run under that span. A nil tracer uses the
// global tracer provider.
func Observer(tracer trace.Tracer) relq.Observer {
	if tracer == nil {
		tracer = otel.Tracer(ScopeName)
	}
	return &observer{tracer: tracer}
}

type observer struct {
	tracer trace.Tracer
}

func (o *observer) Before(ctx context.Context, e relq.QueryEvent) context.Context {
	ctx, _ = o.tracer.Start(ctx, "relq."+e.Builder,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("relq.entity", e.Entity),
			attribute.String("relq.operation.id", e.ID),
			attribute.Bool("relq.tx", e.Tx),
		),
	)
	return ctx
}

func (o *observer) After(ctx context.Context, _ relq.QueryEvent, r relq.QueryResult) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int("relq.rows", r.Rows))
	if r.Err != nil {
		span.RecordError(r.Err)
		span.SetStatus(codes.Error, r.Err.Error())
	}
	span.End()
}
